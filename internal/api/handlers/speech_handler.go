package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/offerready/interviewai/internal/providers/stt"
	"github.com/offerready/interviewai/internal/utils"
)

// SpeechHandler turns a recorded voice answer into text. The client then
// submits the text through the regular answer endpoint.
type SpeechHandler struct {
	stt stt.Provider
}

func NewSpeechHandler(provider stt.Provider) *SpeechHandler {
	return &SpeechHandler{stt: provider}
}

type transcribeRequest struct {
	AudioBase64 string `json:"audio_base64" binding:"required"`
	Language    string `json:"language"`
}

func (h *SpeechHandler) Transcribe(c *gin.Context) {
	const op = "SpeechHandler.Transcribe"

	if _, ok := requireUserID(c); !ok {
		return
	}
	if h.stt == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "speech recognition is not configured", nil))
		return
	}

	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio_base64 is required", err))
		return
	}

	raw := req.AudioBase64
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid audio_base64", err))
		return
	}

	text, confidence, err := h.stt.Transcribe(c.Request.Context(), audio, req.Language)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "transcription failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":       text,
		"confidence": confidence,
	})
}
