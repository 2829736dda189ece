package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
)

type reportRequest struct {
	Date      string `json:"date"`
	Message   string `json:"message"`
	ProjectID *int64 `json:"project_id"`
}

// handleCreateReport snapshots the caller's completed work for a day.
func (s *Server) handleCreateReport(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("date must be YYYY-MM-DD"))
		return
	}

	report, err := s.state.CreateReport(c.Request.Context(), actor, req.Date, req.Message, req.ProjectID)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"report": report})
}

// handleListReports returns reports scoped by role: supervisors get all
// users' reports, everyone else only their own. An optional ?date=
// narrows to one day.
func (s *Server) handleListReports(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)

	reports, err := s.state.ListReports(c.Request.Context(), actor, c.Query("date"))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"reports": reports})
}
