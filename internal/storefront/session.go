package storefront

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Session exposes the signed-in client's bearer token to the pages.
type Session interface {
	Token() string
	IsAuthenticated() bool
	Set(token string)
	Clear()
}

// SessionFactory builds the session for one request.
type SessionFactory func(c *gin.Context) Session

type cookieSession struct {
	c      *gin.Context
	name   string
	secure bool
	token  string
}

// CookieSessions stores the token in an HttpOnly cookie.
func CookieSessions(name string, secure bool) SessionFactory {
	return func(c *gin.Context) Session {
		token, _ := c.Cookie(name)
		return &cookieSession{c: c, name: name, secure: secure, token: token}
	}
}

func (s *cookieSession) Token() string { return s.token }

func (s *cookieSession) IsAuthenticated() bool { return s.token != "" }

func (s *cookieSession) Set(token string) {
	s.token = token
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, token, 0, "/", "", s.secure, true)
}

func (s *cookieSession) Clear() {
	s.token = ""
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}
