package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/utils"
)

type fakeUserRepo struct {
	byID     map[string]*models.User
	byOpenID map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:     make(map[string]*models.User),
		byOpenID: make(map[string]*models.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if _, ok := r.byOpenID[u.OpenID]; ok {
		return errors.New("duplicate openid")
	}
	cp := *u
	r.byID[u.ID] = &cp
	r.byOpenID[u.OpenID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByOpenID(_ context.Context, openID string) (*models.User, error) {
	u, ok := r.byOpenID[openID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *models.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byOpenID[u.OpenID] = &cp
	return nil
}

type fakeExchanger struct {
	openID string
	err    error
}

func (e *fakeExchanger) CodeToOpenID(_ context.Context, _ string) (string, error) {
	return e.openID, e.err
}

func TestWxLoginCreatesUserOnce(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeExchanger{openID: "wx-open-1"}, 1, testLogger())

	first, err := svc.WxLogin(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("WxLogin: %v", err)
	}
	if first.OpenID != "wx-open-1" || first.ID == "" {
		t.Fatalf("user = %+v", first)
	}

	second, err := svc.WxLogin(context.Background(), "code-2")
	if err != nil {
		t.Fatalf("second WxLogin: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("login created a second account: %q vs %q", second.ID, first.ID)
	}
}

func TestWxLoginExchangeFailure(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &fakeExchanger{err: errors.New("invalid code")}, 1, testLogger())

	_, err := svc.WxLogin(context.Background(), "bad-code")
	if !utils.IsCode(err, utils.CodeUnauthorized) {
		t.Fatalf("err = %v, want UNAUTHORIZED", err)
	}
}

func TestConsumeFreeSessionQuota(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, 2, testLogger())

	user, err := svc.Register(context.Background(), "device-1", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.ConsumeFreeSession(context.Background(), user.ID); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}

	err = svc.ConsumeFreeSession(context.Background(), user.ID)
	if !utils.IsCode(err, utils.CodeQuotaExceeded) {
		t.Fatalf("err = %v, want QUOTA_EXCEEDED", err)
	}
}

func TestConsumeFreeSessionResetsNextDay(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, 1, testLogger()).(*userService)

	user, err := svc.Register(context.Background(), "device-1", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	day1 := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }
	if err := svc.ConsumeFreeSession(context.Background(), user.ID); err != nil {
		t.Fatalf("day1 consume: %v", err)
	}
	if err := svc.ConsumeFreeSession(context.Background(), user.ID); !utils.IsCode(err, utils.CodeQuotaExceeded) {
		t.Fatalf("day1 second consume = %v, want QUOTA_EXCEEDED", err)
	}

	svc.now = func() time.Time { return day1.Add(24 * time.Hour) }
	if err := svc.ConsumeFreeSession(context.Background(), user.ID); err != nil {
		t.Fatalf("day2 consume: %v", err)
	}
}

func TestConsumeFreeSessionVIPBypass(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, 1, testLogger())

	user, err := svc.Register(context.Background(), "vip-1", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := repo.byID[user.ID]
	stored.IsVIP = true
	expire := time.Now().Add(24 * time.Hour)
	stored.VIPExpireAt = &expire
	repo.byOpenID[stored.OpenID] = stored

	for i := 0; i < 5; i++ {
		if err := svc.ConsumeFreeSession(context.Background(), user.ID); err != nil {
			t.Fatalf("vip consume %d: %v", i, err)
		}
	}
}

func TestConsumeFreeSessionExpiredVIP(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, 1, testLogger())

	user, err := svc.Register(context.Background(), "vip-2", "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := repo.byID[user.ID]
	stored.IsVIP = true
	expire := time.Now().Add(-time.Hour)
	stored.VIPExpireAt = &expire
	repo.byOpenID[stored.OpenID] = stored

	if err := svc.ConsumeFreeSession(context.Background(), user.ID); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := svc.ConsumeFreeSession(context.Background(), user.ID); !utils.IsCode(err, utils.CodeQuotaExceeded) {
		t.Fatalf("expired vip should hit quota, err = %v", err)
	}
}
