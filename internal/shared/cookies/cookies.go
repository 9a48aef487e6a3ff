package cookies

import (
	"net/http"
	"net/url"
	"strings"

	"starwars-api/internal/shared/config"
)

const AuthCookieName = "auth_token"

// Policy carries the attributes of the auth cookie.
type Policy struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

func NewPolicy(cfg *config.Config) Policy {
	return Policy{
		Domain:   extractDomain(cfg.Frontend.URL),
		Secure:   cfg.Auth.CookieSecure,
		SameSite: parseSameSite(cfg.Auth.CookieSameSite),
		MaxAge:   int(cfg.Auth.TokenExpiration().Seconds()),
	}
}

func (p Policy) SetAuthCookie(w http.ResponseWriter, token string) {
	cookie := p.createAuthCookie()
	cookie.Value = token
	cookie.MaxAge = p.MaxAge

	http.SetCookie(w, cookie)
}

func (p Policy) ClearAuthCookie(w http.ResponseWriter) {
	cookie := p.createAuthCookie()
	cookie.Value = ""
	cookie.MaxAge = -1

	http.SetCookie(w, cookie)
}

func (p Policy) createAuthCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

func extractDomain(frontendURL string) string {
	parsedURL, err := url.Parse(frontendURL)
	if err != nil || parsedURL.Host == "" {
		return ""
	}

	host := strings.Split(parsedURL.Host, ":")[0]
	if host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	return host
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
