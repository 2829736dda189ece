package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/models"
)

type projectRequest struct {
	Name          string   `json:"name"`
	Color         string   `json:"color"`
	ClientName    string   `json:"client_name"`
	ClientAddress string   `json:"client_address"`
	Number        string   `json:"number"`
	Description   string   `json:"description"`
	Stages        []string `json:"stages"`
}

type moveProjectRequest struct {
	TargetIndex int `json:"target_index"`
}

// handleListProjects returns all projects in board order.
func (s *Server) handleListProjects(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"projects": s.state.Projects()})
}

// handleCreateProject creates a new project with its stage lanes.
func (s *Server) handleCreateProject(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	project, err := s.state.AddProject(c.Request.Context(), actor, models.Project{
		Name:          req.Name,
		Color:         req.Color,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		Number:        req.Number,
		Description:   req.Description,
	}, req.Stages)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleUpdateProject rewrites a project and reconciles its stage lanes.
func (s *Server) handleUpdateProject(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	project, err := s.state.UpdateProject(c.Request.Context(), actor, models.Project{
		ID:            id,
		Name:          req.Name,
		Color:         req.Color,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		Number:        req.Number,
		Description:   req.Description,
	}, req.Stages)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project and all related tasks.
func (s *Server) handleDeleteProject(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.state.DeleteProject(c.Request.Context(), actor, id); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleMoveProject moves a project to a new board position.
func (s *Server) handleMoveProject(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req moveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.state.MoveProject(c.Request.Context(), actor, id, req.TargetIndex); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": s.state.Projects()})
}

// handleProjectBoard returns the project's stage lanes with their tasks.
func (s *Server) handleProjectBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lanes, err := s.board.Lanes(id)
	if err != nil {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"stages": lanes})
}
