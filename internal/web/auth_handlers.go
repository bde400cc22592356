package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"mission-control/internal/errors"
	"mission-control/internal/services"
	"mission-control/internal/session"
)

// AvailabilityResponse is the response body for GET /api/auth/available.
type AvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// CredentialsRequest is the request body for POST /api/auth/login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse reports who is signed in.
type AuthResponse struct {
	Username      string `json:"username,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Registered    bool   `json:"registered,omitempty"`
	ResetPending  bool   `json:"resetPending,omitempty"`
}

// ForgotRequest is the request body for the forgot-password steps.
type ForgotRequest struct {
	Username        string `json:"username"`
	Answer          string `json:"answer"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ForgotResponse is the response body for the forgot-password steps.
type ForgotResponse struct {
	Username         string `json:"username"`
	SecurityQuestion string `json:"securityQuestion,omitempty"`
	Verified         bool   `json:"verified,omitempty"`
	Reset            bool   `json:"reset,omitempty"`
}

func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errors.NewInvalidInputError("body", nil, "request body is not valid JSON")
	}
	return nil
}

func (s *Server) handleAvailable(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	username := strings.TrimSpace(c.QueryParam("username"))
	exists, err := s.credentials.UsernameExists(ctx, username)
	if err != nil {
		return errors.FromContext("available", err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{Username: username, Available: !exists})
}

func (s *Server) handleRegister(c echo.Context) error {
	var in services.RegistrationInput
	if err := bind(c, &in); err != nil {
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	account, err := s.credentials.Register(ctx, in)
	if err != nil {
		return errors.FromContext("register", err)
	}
	return c.JSON(http.StatusCreated, AuthResponse{Username: account.Username, Registered: true})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req CredentialsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	account, err := s.credentials.Login(ctx, req.Username, req.Password)
	if err != nil {
		return errors.FromContext("login", err)
	}

	if err := s.sessions.Issue(c.Response(), session.Session{Username: account.Username, Authenticated: true}); err != nil {
		return err
	}
	s.logger.Info("signed in", zap.String("username", account.Username))
	return c.JSON(http.StatusOK, AuthResponse{Username: account.Username, Authenticated: true})
}

func (s *Server) handleLogout(c echo.Context) error {
	s.sessions.Clear(c.Response())
	return c.JSON(http.StatusOK, AuthResponse{Authenticated: false})
}

func (s *Server) handleMe(c echo.Context) error {
	sess := s.sessions.Load(c.Request())
	if sess.Anonymous() {
		return c.JSON(http.StatusOK, AuthResponse{ResetPending: sess.Reset != nil})
	}
	return c.JSON(http.StatusOK, AuthResponse{Username: sess.Username, Authenticated: true})
}

func (s *Server) handleForgotQuestion(c echo.Context) error {
	var req ForgotRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	question, err := s.credentials.SecurityQuestion(ctx, req.Username)
	if err != nil {
		return errors.FromContext("security question", err)
	}
	return c.JSON(http.StatusOK, ForgotResponse{
		Username:         strings.TrimSpace(req.Username),
		SecurityQuestion: question,
	})
}

func (s *Server) handleForgotVerify(c echo.Context) error {
	var req ForgotRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	grant, err := s.credentials.VerifySecurityAnswer(ctx, req.Username, req.Answer)
	if err != nil {
		return errors.FromContext("verify answer", err)
	}

	sess := s.sessions.Load(c.Request())
	sess.Reset = grant
	if err := s.sessions.Issue(c.Response(), sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ForgotResponse{Username: grant.Username, Verified: true})
}

func (s *Server) handleForgotReset(c echo.Context) error {
	var req ForgotRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	sess := s.sessions.Load(c.Request())
	err := s.credentials.ResetPassword(ctx, sess.Reset, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		if errors.GetErrorCode(err) == errors.CodeResetExpired && sess.Reset != nil {
			sess.Reset = nil
			if issueErr := s.sessions.Issue(c.Response(), sess); issueErr != nil {
				s.logger.Warn("clearing reset grant", zap.Error(issueErr))
			}
		}
		return errors.FromContext("reset password", err)
	}

	username := sess.Reset.Username
	sess.Reset = nil
	if err := s.sessions.Issue(c.Response(), sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ForgotResponse{Username: username, Reset: true})
}
