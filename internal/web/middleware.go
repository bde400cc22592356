package web

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"mission-control/internal/errors"
	"mission-control/internal/session"
)

const sessionKey = "session"

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// requireAuth rejects requests without a signed-in session and stores the
// session on the context for the handlers.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := s.sessions.Load(c.Request())
		if sess.Anonymous() {
			return errors.NewAuthenticationError(errors.CodeUnauthenticated, "sign in to manage missions")
		}
		c.Set(sessionKey, sess)
		return next(c)
	}
}

func currentSession(c echo.Context) session.Session {
	if sess, ok := c.Get(sessionKey).(session.Session); ok {
		return sess
	}
	return session.Session{}
}
