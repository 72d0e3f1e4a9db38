package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/repositories/postgres"
	"github.com/offerready/interviewai/internal/utils"
)

// OpenIDExchanger resolves a mini-program login code into a stable openid.
type OpenIDExchanger interface {
	CodeToOpenID(ctx context.Context, code string) (string, error)
}

// UserService manages accounts and the free-session quota. Non-VIP users get
// a fixed number of free interviews per calendar day; VIP bypasses the quota
// until expiry.
type UserService interface {
	// WxLogin exchanges a wx.login() code, creating the account on first
	// sight.
	WxLogin(ctx context.Context, code string) (*models.User, error)
	// Register creates or returns the account for a caller-supplied
	// identifier (non-WeChat clients).
	Register(ctx context.Context, openID, nickname, avatar string) (*models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	// ConsumeFreeSession spends one quota unit or fails with QUOTA_EXCEEDED.
	ConsumeFreeSession(ctx context.Context, userID string) error
}

type userService struct {
	users      postgres.UserRepository
	wechat     OpenIDExchanger
	dailyLimit int
	now        func() time.Time // injectable for tests
	log        *logrus.Entry
}

func NewUserService(users postgres.UserRepository, wechat OpenIDExchanger, dailyLimit int, log *logrus.Entry) UserService {
	if dailyLimit <= 0 {
		dailyLimit = 1
	}
	return &userService{
		users:      users,
		wechat:     wechat,
		dailyLimit: dailyLimit,
		now:        time.Now,
		log:        log,
	}
}

func (s *userService) WxLogin(ctx context.Context, code string) (*models.User, error) {
	const op = "UserService.WxLogin"

	if strings.TrimSpace(code) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "login code is required", nil)
	}
	if s.wechat == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "wechat login is not configured", nil)
	}

	openID, err := s.wechat.CodeToOpenID(ctx, code)
	if err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "wechat code exchange failed", err)
	}
	return s.findOrCreate(ctx, op, openID, "", "")
}

func (s *userService) Register(ctx context.Context, openID, nickname, avatar string) (*models.User, error) {
	const op = "UserService.Register"

	if strings.TrimSpace(openID) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "openid is required", nil)
	}
	return s.findOrCreate(ctx, op, openID, nickname, avatar)
}

func (s *userService) findOrCreate(ctx context.Context, op, openID, nickname, avatar string) (*models.User, error) {
	user, err := s.users.GetByOpenID(ctx, openID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	now := s.now().UTC()
	user = &models.User{
		ID:        uuid.NewString(),
		OpenID:    openID,
		Nickname:  nickname,
		Avatar:    avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a concurrent registration race; the stored row wins.
		if existing, getErr := s.users.GetByOpenID(ctx, openID); getErr == nil {
			return existing, nil
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Get"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return user, nil
}

func (s *userService) ConsumeFreeSession(ctx context.Context, userID string) error {
	const op = "UserService.ConsumeFreeSession"

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	now := s.now().UTC()
	if isActiveVIP(user, now) {
		return nil
	}

	if user.LastFreeDate == nil || !sameDay(*user.LastFreeDate, now) {
		user.FreeCountToday = 0
	}
	if user.FreeCountToday >= s.dailyLimit {
		return utils.E(utils.CodeQuotaExceeded, op, "daily free interview quota exceeded", nil)
	}

	user.FreeCountToday++
	user.LastFreeDate = &now
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update quota", err)
	}
	return nil
}

func isActiveVIP(u *models.User, now time.Time) bool {
	if !u.IsVIP {
		return false
	}
	return u.VIPExpireAt == nil || u.VIPExpireAt.After(now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
