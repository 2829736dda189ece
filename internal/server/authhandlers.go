package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignIn exchanges credentials for a session token.
func (s *Server) handleSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("email and password are required"))
		return
	}

	token, user, err := s.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, http.StatusUnauthorized, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// handleSignOut revokes the caller's session.
func (s *Server) handleSignOut(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		s.auth.SignOut(strings.TrimSpace(token))
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "signed out"})
}

// handleMe returns the signed-in user.
func (s *Server) handleMe(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		s.respondError(c, http.StatusUnauthorized, auth.ErrUnauthenticated)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}
