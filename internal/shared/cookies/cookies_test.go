package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starwars-api/internal/shared/config"
)

func TestNewPolicy(t *testing.T) {
	cfg := &config.Config{}
	cfg.Frontend.URL = "https://holonet.example.com:8443"
	cfg.Auth.CookieSecure = true
	cfg.Auth.CookieSameSite = "Strict"
	cfg.Auth.TokenExpirationHours = 2

	p := NewPolicy(cfg)
	assert.Equal(t, "holonet.example.com", p.Domain)
	assert.True(t, p.Secure)
	assert.Equal(t, http.SameSiteStrictMode, p.SameSite)
	assert.Equal(t, int((2 * time.Hour).Seconds()), p.MaxAge)
}

func TestExtractDomainSkipsLocalhost(t *testing.T) {
	assert.Equal(t, "", extractDomain("http://localhost:3000"))
	assert.Equal(t, "", extractDomain("http://127.0.0.1"))
	assert.Equal(t, "", extractDomain("::bad"))
}

func TestSetAndClearAuthCookie(t *testing.T) {
	p := Policy{SameSite: http.SameSiteLaxMode, MaxAge: 3600}

	rec := httptest.NewRecorder()
	p.SetAuthCookie(rec, "token-value")
	set := rec.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, AuthCookieName, set[0].Name)
	assert.Equal(t, "token-value", set[0].Value)
	assert.True(t, set[0].HttpOnly)
	assert.Equal(t, 3600, set[0].MaxAge)

	rec = httptest.NewRecorder()
	p.ClearAuthCookie(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Equal(t, -1, cleared[0].MaxAge)
}
