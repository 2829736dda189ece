package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/models"
)

type subtaskRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

// handleAddSubtask appends a subtask to a task and returns the updated
// parent, including the recomputed progress.
func (s *Server) handleAddSubtask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	task, err := s.state.AddSubtask(c.Request.Context(), actor, taskID, models.SubTask{
		Title:  *req.Title,
		Status: getString(req.Status),
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateSubtask rewrites a subtask; completing the last open one
// promotes the parent task in the same update.
func (s *Server) handleUpdateSubtask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	subtaskID, ok := parseID(c, "subtaskID")
	if !ok {
		return
	}

	current, found := s.state.Task(taskID)
	if !found {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	var subtask models.SubTask
	for _, st := range current.Subtasks {
		if st.ID == subtaskID {
			subtask = st
			break
		}
	}
	if subtask.ID == 0 {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("subtask not found"))
		return
	}

	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title != nil && *req.Title != "" {
		subtask.Title = *req.Title
	}
	if req.Status != nil {
		if _, valid := models.ValidSubtaskStatuses[*req.Status]; valid {
			subtask.Status = *req.Status
		}
	}

	task, err := s.state.UpdateSubtask(c.Request.Context(), actor, subtask)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteSubtask removes a subtask and returns the updated parent.
func (s *Server) handleDeleteSubtask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	subtaskID, ok := parseID(c, "subtaskID")
	if !ok {
		return
	}

	task, err := s.state.DeleteSubtask(c.Request.Context(), actor, taskID, subtaskID)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}
