package auth

import (
	"errors"
	"log"
	"net/http"

	"verideal_back_end/internal/config"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
)

// OAuthProviders builds the goth providers that have credentials configured.
func OAuthProviders(cfg config.OAuthConfig) []goth.Provider {
	var providers []goth.Provider

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.CallbackBaseURL+"/google/callback",
			"email", "profile",
		))
		log.Println("✅ Google OAuth enabled")
	}

	if cfg.FacebookClientID != "" && cfg.FacebookClientSecret != "" {
		providers = append(providers, facebook.New(
			cfg.FacebookClientID,
			cfg.FacebookClientSecret,
			cfg.CallbackBaseURL+"/facebook/callback",
			"email",
		))
		log.Println("✅ Facebook OAuth enabled")
	}
	return providers
}

// InitOAuth registers the configured goth providers and the cookie store
// gothic keeps its state in. It reports whether any provider is enabled.
func InitOAuth(cfg config.OAuthConfig, sessionSecret string, secure bool) bool {
	providers := OAuthProviders(cfg)
	if len(providers) == 0 {
		log.Println("⚠️ No OAuth provider configured")
		return false
	}
	if sessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET not set, OAuth disabled")
		return false
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(600)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store
	gothic.GetProviderName = ProviderFromRequest

	goth.UseProviders(providers...)
	log.Printf("✅ %d OAuth provider(s) initialised", len(providers))
	return true
}

// ProviderFromRequest reads the provider from ?provider=, which the OAuth
// handler sets from the :provider path segment.
func ProviderFromRequest(req *http.Request) (string, error) {
	if provider := req.URL.Query().Get("provider"); provider != "" {
		return provider, nil
	}
	return "", errors.New("provider not found")
}
