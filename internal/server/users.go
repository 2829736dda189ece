package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/models"
	"taskboard/internal/state"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// handleListUsers returns every workspace member.
func (s *Server) handleListUsers(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"users": s.state.Users()})
}

// handleCreateUser registers a new member. Admin only.
func (s *Server) handleCreateUser(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)
	if !models.Allowed(models.OpManageUsers, actor.Role) {
		s.respondError(c, http.StatusForbidden, state.ErrPermission)
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name, email and password are required"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req.Name, req.Email, models.Role(req.Role), hash)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	// New members should show up in assignee pickers right away.
	if err := s.state.Reload(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}
