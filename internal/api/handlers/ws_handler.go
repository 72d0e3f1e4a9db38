package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/offerready/interviewai/internal/services"
	"github.com/offerready/interviewai/internal/utils"
)

// WSHandler runs the interview dialogue over a WebSocket: the client sends
// answers, the server pushes back the interviewer's next message. It is a
// thin transport over the same SubmitAnswer path the REST endpoint uses.
type WSHandler struct {
	interviews services.InterviewService
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews services.InterviewService) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type    string `json:"type"` // answer | finish | ping
	Content string `json:"content"`
}

type wsServerMsg struct {
	Type           string     `json:"type"` // question | finished | pong | error
	Question       string     `json:"question,omitempty"`
	InstantScore   *float64   `json:"instant_score,omitempty"`
	Hint           string     `json:"hint,omitempty"`
	QuestionNumber int        `json:"question_number,omitempty"`
	IsFinished     bool       `json:"is_finished,omitempty"`
	Code           utils.Code `json:"code,omitempty"`
	Message        string     `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (h *WSHandler) InterviewWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.InterviewWS", "missing session_id", nil))
		return
	}

	session, err := h.interviews.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	if session.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "WSHandler.InterviewWS", "forbidden", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}

	// Resume: push the pending question so a reconnecting client has state.
	if session.CurrentQuestion != "" {
		_ = wc.writeJSON(wsServerMsg{
			Type:           "question",
			Question:       session.CurrentQuestion,
			QuestionNumber: session.QuestionCount,
		})
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "invalid json"})
			continue
		}

		switch msg.Type {
		case "ping":
			_ = wc.writeJSON(wsServerMsg{Type: "pong"})

		case "answer", "finish":
			finish := msg.Type == "finish"
			res, err := h.interviews.SubmitAnswer(c.Request.Context(), sessionID, msg.Content, finish)
			if err != nil {
				_ = wc.writeJSON(wsErrorMsg(err))
				continue
			}

			out := wsServerMsg{
				Type:           "question",
				Question:       res.Question,
				InstantScore:   res.InstantScore,
				Hint:           res.Hint,
				QuestionNumber: res.QuestionNumber,
				IsFinished:     res.IsFinished,
			}
			if res.IsFinished {
				out.Type = "finished"
			}
			if werr := wc.writeJSON(out); werr != nil {
				return
			}
			if res.IsFinished {
				return
			}

		default:
			_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "unknown message type"})
		}
	}
}

func wsErrorMsg(err error) wsServerMsg {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return wsServerMsg{Type: "error", Code: ae.Code, Message: ae.Message}
	}
	return wsServerMsg{Type: "error", Code: utils.CodeInternal, Message: "internal error"}
}
