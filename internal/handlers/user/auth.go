package user

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"

	"verideal_back_end/internal/auth"
	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/middleware"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

// Auth is the auth service as seen by HTTP.
type Auth interface {
	SignUp(ctx context.Context, email, password, name string) (auth.Session, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (auth.Session, error)
	CompleteOAuth(ctx context.Context, provider, providerID, email, name string) (auth.Session, error)
	SignOut(ctx context.Context, claims *utils.Claims) error
	User(ctx context.Context, userID string) (models.User, error)
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpsertProfile(ctx context.Context, userID string, in auth.ProfileInput) (models.Profile, error)
	UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (models.Profile, error)
}

type AuthHandler struct {
	auth        Auth
	frontendURL string
}

func NewAuthHandler(a Auth, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: a, frontendURL: frontendURL}
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	session, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// POST /api/auth/otp
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	if err := h.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "A sign-in code has been sent to your email"})
}

// POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and code are required"})
		return
	}
	session, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), middleware.ClaimsFrom(c)); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		middleware.Unauthorized(c, "Please sign in to continue")
		return
	}
	user, err := h.auth.User(c.Request.Context(), claims.UserID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "expires_at": claims.ExpiresAt.Time})
}

//
// --- OAUTH ---
//

// withProvider copies the :provider path segment to the query, where gothic looks for it.
func withProvider(c *gin.Context) bool {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No provider given"})
		return false
	}
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return true
}

// GET /api/auth/oauth/:provider
func (h *AuthHandler) BeginOAuth(c *gin.Context) {
	if !withProvider(c) {
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// GET /api/auth/oauth/:provider/callback
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if !withProvider(c) {
		return
	}
	gu, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ OAuth callback failed: %v", err)
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=oauth")
		return
	}

	session, err := h.auth.CompleteOAuth(c.Request.Context(), gu.Provider, gu.UserID, gu.Email, gu.Name)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	// the token travels in the fragment so it never reaches server logs
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/callback#token="+url.QueryEscape(session.Token))
}

//
// --- PROFILE ---
//

// GET /api/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	p, err := h.auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /api/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	var in auth.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	p, err := h.auth.UpsertProfile(c.Request.Context(), userID, in)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

const maxAvatarSize = 5 << 20

// POST /api/profile/avatar (multipart field "avatar")
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}
	if file.Size > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Avatar must be 5 MB or smaller"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file"})
		return
	}
	defer f.Close()

	p, err := h.auth.UploadAvatar(c.Request.Context(), userID, f, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
