package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
)

type noteRequest struct {
	Content string `json:"content"`
}

// handleAddNote appends a note authored by the caller.
func (s *Server) handleAddNote(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Content == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("content is required"))
		return
	}

	task, err := s.state.AddNote(c.Request.Context(), actor, taskID, req.Content)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateNote rewrites a note; author or coordinator only.
func (s *Server) handleUpdateNote(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	noteID, ok := parseID(c, "noteID")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.state.UpdateNote(c.Request.Context(), actor, taskID, noteID, req.Content)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteNote removes a note; author or coordinator only.
func (s *Server) handleDeleteNote(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	noteID, ok := parseID(c, "noteID")
	if !ok {
		return
	}

	task, err := s.state.DeleteNote(c.Request.Context(), actor, taskID, noteID)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}
