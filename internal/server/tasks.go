package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/models"
)

type taskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StageName   *string    `json:"stage_name"`
	AssigneeID  *int64     `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

type reassignRequest struct {
	AssigneeID int64 `json:"assignee_id"`
}

// handleListTasks fetches the mirrored tasks of a project.
func (s *Server) handleListTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": s.state.ProjectTasks(projectID)})
}

// handleCreateTask inserts a new task into a project stage.
func (s *Server) handleCreateTask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	if req.StageName == nil || *req.StageName == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("stage_name is required"))
		return
	}

	draft := models.Task{
		ProjectID:   projectID,
		StageName:   *req.StageName,
		Title:       *req.Title,
		Description: getString(req.Description),
		Status:      getString(req.Status),
		Priority:    getString(req.Priority),
		DueAt:       req.DueAt,
	}
	if req.AssigneeID != nil {
		draft.AssigneeID = *req.AssigneeID
	}

	task, err := s.state.AddTask(c.Request.Context(), actor, draft)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask updates task fields such as status or description.
// Only the present fields change; the write replaces the full row.
func (s *Server) handleUpdateTask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	current, found := s.state.Task(id)
	if !found {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Title != nil && *req.Title != "" {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Status != nil {
		if _, valid := models.ValidTaskStatuses[*req.Status]; valid {
			current.Status = *req.Status
		}
	}
	if req.Priority != nil {
		if _, valid := models.ValidPriorities[*req.Priority]; valid {
			current.Priority = *req.Priority
		}
	}
	if req.DueAt != nil {
		current.DueAt = req.DueAt
	}

	task, err := s.state.UpdateTask(c.Request.Context(), actor, current)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.state.DeleteTask(c.Request.Context(), actor, id); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleReassignTask changes a task's assignee.
func (s *Server) handleReassignTask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.state.ReassignTask(c.Request.Context(), actor, id, req.AssigneeID)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}
