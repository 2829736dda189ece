package server

import (
	"io"

	"github.com/gin-gonic/gin"
)

// handleEvents streams one server-sent event per task-table change. The
// payload only says which row changed; clients refetch instead of
// patching.
func (s *Server) handleEvents(c *gin.Context) {
	ch, cancel := s.store.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", gin.H{"task_id": ev.TaskID})
			return true
		}
	})
}
