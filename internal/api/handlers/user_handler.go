package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/offerready/interviewai/internal/api/middleware"
	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/services"
	"github.com/offerready/interviewai/internal/utils"
)

const tokenTTL = 7 * 24 * time.Hour

type UserHandler struct {
	users     services.UserService
	jwtSecret string
}

func NewUserHandler(users services.UserService, jwtSecret string) *UserHandler {
	return &UserHandler{users: users, jwtSecret: jwtSecret}
}

type wxLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type registerRequest struct {
	OpenID   string `json:"openid" binding:"required"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *UserHandler) WxLogin(c *gin.Context) {
	const op = "UserHandler.WxLogin"

	var req wxLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "code is required", err))
		return
	}

	user, err := h.users.WxLogin(c.Request.Context(), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}

	h.respondWithToken(c, op, user)
}

func (h *UserHandler) Register(c *gin.Context) {
	const op = "UserHandler.Register"

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "openid is required", err))
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.OpenID, req.Nickname, req.Avatar)
	if err != nil {
		writeError(c, err)
		return
	}

	h.respondWithToken(c, op, user)
}

func (h *UserHandler) respondWithToken(c *gin.Context, op string, user *models.User) {
	token, err := middleware.IssueToken(h.jwtSecret, user.ID, tokenTTL)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to issue token", err))
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
