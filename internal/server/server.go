package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/board"
	"taskboard/internal/state"
	"taskboard/internal/storage/sqlite"
)

// Server provides the HTTP surface of the task board.
type Server struct {
	engine    *gin.Engine
	state     *state.Store
	board     *board.Engine
	auth      *auth.Manager
	store     *sqlite.Store
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(st *state.Store, store *sqlite.Store, authMgr *auth.Manager, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:    router,
		state:     st,
		board:     board.NewEngine(st),
		auth:      authMgr,
		store:     store,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/auth/signin", s.handleSignIn)

		authed := api.Group("")
		authed.Use(s.auth.Middleware())
		{
			authed.POST("/auth/signout", s.handleSignOut)
			authed.GET("/me", s.handleMe)

			authed.GET("/users", s.handleListUsers)
			authed.POST("/users", s.handleCreateUser)

			projects := authed.Group("/projects")
			{
				projects.GET("", s.handleListProjects)
				projects.POST("", s.handleCreateProject)
				projects.PUT(":id", s.handleUpdateProject)
				projects.DELETE(":id", s.handleDeleteProject)
				projects.POST(":id/move", s.handleMoveProject)
				projects.GET(":id/board", s.handleProjectBoard)
				projects.GET(":id/tasks", s.handleListTasks)
				projects.POST(":id/tasks", s.handleCreateTask)
			}

			authed.PUT("/tasks/:id", s.handleUpdateTask)
			authed.DELETE("/tasks/:id", s.handleDeleteTask)
			authed.POST("/tasks/:id/reassign", s.handleReassignTask)
			authed.POST("/tasks/:id/subtasks", s.handleAddSubtask)
			authed.PUT("/tasks/:id/subtasks/:subtaskID", s.handleUpdateSubtask)
			authed.DELETE("/tasks/:id/subtasks/:subtaskID", s.handleDeleteSubtask)
			authed.POST("/tasks/:id/notes", s.handleAddNote)
			authed.PUT("/tasks/:id/notes/:noteID", s.handleUpdateNote)
			authed.DELETE("/tasks/:id/notes/:noteID", s.handleDeleteNote)

			authed.POST("/board/move", s.handleMoveTask)

			authed.POST("/reports", s.handleCreateReport)
			authed.GET("/reports", s.handleListReports)

			authed.GET("/events", s.handleEvents)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the error and returns a JSON payload with a status
// derived from the error kind: permission failures map to 403, missing
// entities to 404.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	switch {
	case errors.Is(err, state.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, state.ErrNotFound):
		status = http.StatusNotFound
	case err != nil && strings.HasSuffix(err.Error(), "not found"):
		status = http.StatusNotFound
	}
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
