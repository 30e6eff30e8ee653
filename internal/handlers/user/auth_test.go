package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"verideal_back_end/internal/auth"
	"verideal_back_end/internal/cache"
	"verideal_back_end/internal/middleware"
	"verideal_back_end/internal/store/storetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *codeMailer) SendOTP(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *codeMailer) SendWelcome(context.Context, string, string) error { return nil }

type memAvatars struct{}

func (memAvatars) Upload(_ context.Context, userID string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return "https://minio.local/avatars/" + userID + "/a.png", nil
}

func authRouter(t *testing.T) (*gin.Engine, *codeMailer) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	users := storetest.NewUsers()
	mailer := &codeMailer{codes: map[string]string{}}
	svc := auth.NewService(users, users, cache.New(rdb), mailer, memAvatars{}, auth.Options{
		Secret:   []byte("handler-secret"),
		TokenTTL: time.Hour,
		OTPTTL:   5 * time.Minute,
	})
	h := NewAuthHandler(svc, "http://shop.local")

	r := gin.New()
	r.POST("/api/auth/signup", h.SignUp)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/otp", h.RequestOTP)
	r.POST("/api/auth/otp/verify", h.VerifyOTP)
	r.GET("/api/auth/oauth/:provider", h.BeginOAuth)

	authed := r.Group("/api", middleware.AuthRequired(svc))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/session", h.Session)
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.POST("/profile/avatar", h.UploadAvatar)
	return r, mailer
}

func withToken(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var session auth.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestAuth_SignUpLoginLogout(t *testing.T) {
	r, _ := authRouter(t)

	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"s3cret!","name":"Ada"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/auth/login", `{"email":"ADA@example.com","password":"s3cret!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	token := tokenFrom(t, w)

	w = withToken(r, http.MethodGet, "/api/auth/session", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")

	w = withToken(r, http.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = withToken(r, http.MethodGet, "/api/auth/session", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SignUpRejects(t *testing.T) {
	r, _ := authRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/auth/signup", `{"email":"not-an-email","password":"s3cret!"}`).Code)

	do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"s3cret!"}`)
	w := do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"s3cret!"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuth_LoginLockout(t *testing.T) {
	r, _ := authRouter(t)
	do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"s3cret!"}`)

	for i := 0; i < auth.LoginMaxAttempts; i++ {
		do(r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	}
	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret!"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after")
}

func TestAuth_OTP(t *testing.T) {
	r, mailer := authRouter(t)

	w := do(r, http.MethodPost, "/api/auth/otp", `{"email":"grace@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	code := mailer.codes["grace@example.com"]
	require.Len(t, code, 6)

	w = do(r, http.MethodPost, "/api/auth/otp/verify", `{"email":"grace@example.com","code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"provider":"otp"`)

	// single use
	w = do(r, http.MethodPost, "/api/auth/otp/verify", `{"email":"grace@example.com","code":"`+code+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BeginOAuthUnknownProvider(t *testing.T) {
	r, _ := authRouter(t)
	w := do(r, http.MethodGet, "/api/auth/oauth/myspace", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile_UpdateAndAvatar(t *testing.T) {
	r, _ := authRouter(t)
	token := tokenFrom(t, do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"s3cret!"}`))

	w := withToken(r, http.MethodGet, "/api/profile", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ada@example.com"`)

	w = withToken(r, http.MethodPut, "/api/profile", token, `{"name":" Ada Lovelace ","city":"London"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ada Lovelace"`)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://minio.local/avatars/")
	assert.Contains(t, w.Body.String(), `"city":"London"`)
}

func TestProfile_AvatarMissingFile(t *testing.T) {
	r, _ := authRouter(t)
	token := tokenFrom(t, do(r, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"s3cret!"}`))

	w := withToken(r, http.MethodPost, "/api/profile/avatar", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
