package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/services"
	"github.com/offerready/interviewai/internal/utils"
)

type InterviewHandler struct {
	interviews services.InterviewService
	reports    services.ReportService
	users      services.UserService
}

func NewInterviewHandler(interviews services.InterviewService, reports services.ReportService, users services.UserService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, reports: reports, users: users}
}

type startInterviewRequest struct {
	Position string `json:"position" binding:"required"`
	Round    string `json:"round" binding:"required"`
	Resume   string `json:"resume"`
	Style    string `json:"interviewer_style"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
	Finish bool   `json:"finish"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	const op = "InterviewHandler.Start"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req startInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "position and round are required", err))
		return
	}

	if err := h.users.ConsumeFreeSession(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	session, err := h.interviews.Start(c.Request.Context(), services.StartParams{
		UserID:   userID,
		Position: req.Position,
		Round:    req.Round,
		Resume:   req.Resume,
		Style:    req.Style,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":        session.SessionID,
		"question":          session.CurrentQuestion,
		"question_number":   session.QuestionCount,
		"interviewer_style": session.InterviewerStyle,
		"plan":              session.Plan,
	})
}

func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	const op = "InterviewHandler.SubmitAnswer"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	if ok := h.authorizeSession(c, userID, sessionID); !ok {
		return
	}

	res, err := h.interviews.SubmitAnswer(c.Request.Context(), sessionID, req.Answer, req.Finish)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) GetSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	session, err := h.interviews.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if session.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.GetSession", "forbidden", nil))
		return
	}
	c.JSON(http.StatusOK, session)
}

type historyItem struct {
	Session    models.InterviewSession `json:"session"`
	TotalScore *float64                `json:"total_score,omitempty"`
}

func (h *InterviewHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sessions, err := h.interviews.History(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]historyItem, 0, len(sessions))
	for _, s := range sessions {
		item := historyItem{Session: s}
		if s.IsFinished {
			if report, err := h.reports.Get(c.Request.Context(), s.SessionID); err == nil {
				item.TotalScore = &report.TotalScore
			}
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": items, "count": len(items)})
}

func (h *InterviewHandler) GetReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if ok := h.authorizeSession(c, userID, sessionID); !ok {
		return
	}

	report, err := h.reports.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GenerateReport allows a client to request generation eagerly instead of
// waiting for the async worker. Safe to call repeatedly.
func (h *InterviewHandler) GenerateReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if ok := h.authorizeSession(c, userID, sessionID); !ok {
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *InterviewHandler) authorizeSession(c *gin.Context, userID, sessionID string) bool {
	session, err := h.interviews.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return false
	}
	if session.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler", "forbidden", nil))
		return false
	}
	return true
}
