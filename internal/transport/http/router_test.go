package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bdgram/api/internal/config"
	"github.com/bdgram/api/internal/domain"
	jwtinfra "github.com/bdgram/api/internal/infrastructure/jwt"
)

// --- canned stores ---

type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return &domain.User{ID: 1, UserID: "123456", Name: "Alice", Email: "alice@example.com"}, nil
}
func (stubUserRepo) GetByUserID(context.Context, string) (*domain.User, error) {
	return &domain.User{ID: 1, UserID: "123456", Name: "Alice", Email: "alice@example.com"}, nil
}
func (stubUserRepo) UserIDExists(context.Context, string) (bool, error)     { return true, nil }
func (stubUserRepo) UpdatePassword(context.Context, string, string) error   { return nil }
func (stubUserRepo) SetOTP(context.Context, string, string, time.Time) error { return nil }
func (stubUserRepo) ActiveOTPDigest(context.Context, string, time.Time) (string, error) {
	return "", fmt.Errorf("no active otp: %w", domain.ErrNotFound)
}
func (stubUserRepo) ConsumeOTP(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}
func (stubUserRepo) UpdateProfile(context.Context, string, map[string]interface{}) error { return nil }
func (stubUserRepo) ImageByUserID(context.Context, string) (*string, error) {
	img := "/api/uploads/images/123456_a.png"
	return &img, nil
}
func (stubUserRepo) InfoByUserID(context.Context, string) ([]domain.UserInfo, error) {
	return []domain.UserInfo{{UserID: "123456", Name: "Alice"}}, nil
}

type stubContactRepo struct{}

func (stubContactRepo) Add(context.Context, string, string) error { return nil }
func (stubContactRepo) ListByCaller(context.Context, string) ([]domain.ContactEntry, error) {
	return []domain.ContactEntry{{Contact: domain.Contact{ID: 1, CallerID: "123456", ReceiverID: "654321"}, UserID: "654321", Name: "Bob", Email: "bob@example.com"}}, nil
}
func (stubContactRepo) Delete(context.Context, int64) error { return nil }

type stubImages struct{}

func (stubImages) Save(_ context.Context, key string, _ io.Reader) (string, error) {
	return "/api/uploads/images/" + key, nil
}
func (stubImages) Delete(context.Context, string) error { return nil }

type stubMailer struct{}

func (stubMailer) SendOTP(string, string) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		AppEnv:         "test",
		SecretKey:      "router-test-secret",
		TokenExpiry:    time.Hour,
		CookieExpiry:   7 * 24 * time.Hour,
		ImageStoreType: "local",
		UploadDir:      t.TempDir(),
		UploadBaseURL:  "/api/uploads/images",
		AllowedOrigins: []string{"*"},
	}
	return NewRouter(cfg, &Deps{
		UserRepo:    stubUserRepo{},
		ContactRepo: stubContactRepo{},
		Images:      stubImages{},
		Mailer:      stubMailer{},
		JWTProvider: jwtinfra.NewProvider(cfg),
	})
}

func do(t *testing.T, router http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_DataRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/log?user_id=123456", "", http.StatusOK},
		{http.MethodGet, "/image?user_id=123456", "", http.StatusOK},
		{http.MethodGet, "/contact?caller_id=123456", "", http.StatusOK},
		{http.MethodPost, "/contact", `{"caller_id":"123456","receiver_id":"654321"}`, http.StatusCreated},
		{http.MethodPut, "/authentication/profile", `{"user_id":"123456","name":"Alice","bio":"hi"}`, http.StatusOK},
	}
	for _, tc := range cases {
		rr := do(t, router, tc.method, tc.target, tc.body)
		assert.Equal(t, tc.want, rr.Code, "%s %s", tc.method, tc.target)
	}
}

func TestRouter_ContactDeleteAcceptsQueryAndPathIDs(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodDelete, "/contact?id=5", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodDelete, "/contact/5", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_SessionStaysGated(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/authentication/session", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_MissingFieldsAnswerBadRequest(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/authentication/sign-up", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
