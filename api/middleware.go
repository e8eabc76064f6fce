package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/skyrocket/internal/client"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const sessionKey = "client_session"

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware attaches the caller's client context and refreshes the
// session cookie on every request.
func SessionMiddleware(registry *client.Registry, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookie.Name)
		session, fresh, err := registry.Resolve(token)
		if err != nil {
			writeError(c, err)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, fresh, int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)
		c.Set(sessionKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *client.Session {
	return c.MustGet(sessionKey).(*client.Session)
}

// RequestLogger writes one line per request through zerolog.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
			if last := c.Errors.Last(); last != nil {
				event = event.Err(last.Err)
			}
		case status >= http.StatusBadRequest:
			event = log.Warn()
		case len(c.Errors) > 0:
			event = log.Warn()
		}
		if last := c.Errors.Last(); last != nil && status < http.StatusInternalServerError {
			event = event.Err(last.Err)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
