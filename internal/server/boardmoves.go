package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
)

type moveTaskRequest struct {
	ProjectID   int64  `json:"project_id"`
	TaskID      int64  `json:"task_id"`
	FromStage   string `json:"from_stage"`
	ToStage     string `json:"to_stage"`
	TargetIndex int    `json:"target_index"`
}

// handleMoveTask processes one drag gesture. Cancelled drags (an empty
// stage name) and same-slot drops succeed without writing anything.
func (s *Server) handleMoveTask(c *gin.Context) {
	actor, _ := auth.CurrentUser(c)

	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	err := s.board.MoveTask(c.Request.Context(), actor, req.ProjectID, req.TaskID, req.FromStage, req.ToStage, req.TargetIndex)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	lanes, err := s.board.Lanes(req.ProjectID)
	if err != nil {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"stages": lanes})
}
