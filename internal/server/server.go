package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Registrar accepts new players. *hub.Hub satisfies it.
type Registrar interface {
	Register() chan<- *types.RegistrationRequest
}

type Server struct {
	hub      Registrar
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer builds the gin engine. Files under staticDir are served for unmatched
// routes; an empty staticDir disables them.
func NewServer(h Registrar, engineController *controller.EngineController, staticDir string) (*Server, error) {
	if err := validator.RegisterGin(); err != nil {
		return nil, err
	}

	s := &Server{
		hub:    h,
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.registerHandlers(engineController, staticDir)
	return s, nil
}

// Engine returns the http.Handler for the server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(engineController *controller.EngineController, staticDir string) {
	s.engine.GET("/ws", s.handleWebSocket)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")
	{
		engine := v1.Group("/engine")
		engine.POST("/best-move", engineController.BestMove)
		engine.POST("/evaluate", engineController.Evaluate)
	}

	if staticDir != "" {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))
	}
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	r := c.Request
	ctx, span := tracer.Start(r.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", r.URL.String()),
		attribute.String("http.method", r.Method),
	))
	defer span.End()

	mode, err := game.ParseMode(c.Query("mode"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid game mode")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("game.mode", string(mode)))

	conn, err := s.upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	playerID := uuid.New().String()
	span.SetAttributes(attribute.String("player.id", playerID))

	// The request context ends with this handler; the room outlives it.
	req := &types.RegistrationRequest{
		Player: player.NewPlayer(playerID, conn),
		Mode:   mode,
		Ctx:    context.WithoutCancel(ctx),
	}
	s.hub.Register() <- req
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}
