package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mission-control/internal/errors"
	"mission-control/internal/services"
)

// AddMissionRequest is the request body for POST /api/missions.
type AddMissionRequest struct {
	Date string `json:"date"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// UpdateMissionRequest is the request body for PATCH /api/missions/:id.
type UpdateMissionRequest struct {
	Completed *bool  `json:"completed"`
	Date      string `json:"date"`
}

func (s *Server) dateOrToday(date string) string {
	if d := strings.TrimSpace(date); d != "" {
		return d
	}
	return s.today()
}

// view returns the day's state after a change, with the given status.
func (s *Server) view(c echo.Context, status int, date string) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	v, err := s.missions.View(ctx, currentSession(c).Username, date)
	if err != nil {
		return errors.FromContext("view missions", err)
	}
	return c.JSON(status, v)
}

func (s *Server) handleListMissions(c echo.Context) error {
	return s.view(c, http.StatusOK, s.dateOrToday(c.QueryParam("date")))
}

func (s *Server) handleAddMission(c echo.Context) error {
	var req AddMissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	date := s.dateOrToday(req.Date)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	_, err := s.missions.AddMission(ctx, services.MissionInput{
		User:     currentSession(c).Username,
		Date:     date,
		Text:     req.Text,
		TimeSlot: req.Time,
	})
	if err != nil {
		return errors.FromContext("add mission", err)
	}
	return s.view(c, http.StatusCreated, date)
}

func (s *Server) handleSetCompleted(c echo.Context) error {
	var req UpdateMissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Completed == nil {
		return errors.NewInvalidInputError("completed", nil, "must be true or false")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	mission, err := s.missions.SetCompleted(ctx, c.Param("id"), *req.Completed)
	if err != nil {
		return errors.FromContext("update mission", err)
	}

	date := req.Date
	if strings.TrimSpace(date) == "" {
		date = mission.Date
	}
	return s.view(c, http.StatusOK, s.dateOrToday(date))
}

func (s *Server) handleDeleteMission(c echo.Context) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.missions.DeleteMission(ctx, c.Param("id")); err != nil {
		return errors.FromContext("delete mission", err)
	}
	return s.view(c, http.StatusOK, s.dateOrToday(c.QueryParam("date")))
}
