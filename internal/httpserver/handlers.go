package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/agent"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/voice"
)

const appVersion = "0.0.1"

// DBProbe reports whether the catalog database is reachable.
type DBProbe interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Registry *agent.Registry
	Voice    *voice.Handler
	Tokens   *voice.TokenClient
	DB       DBProbe
}

func NewHandlers(registry *agent.Registry, voiceHandler *voice.Handler, tokens *voice.TokenClient, db DBProbe) Handlers {
	return Handlers{Registry: registry, Voice: voiceHandler, Tokens: tokens, DB: db}
}

func (h Handlers) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.POST("/chat", h.chat)
	e.POST("/call-token", h.callToken)
	e.GET("/llm-websocket/:call_id", h.callWebSocket)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

func (h Handlers) health(c echo.Context) error {
	dbStatus := "connected"
	if h.DB == nil {
		dbStatus = "unknown"
	} else if err := h.DB.Ping(c.Request().Context()); err != nil {
		c.Echo().Logger.Errorf("database health check failed: %v", err)
		dbStatus = "disconnected"
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Database: dbStatus, Version: appVersion})
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// chat is the text channel. Sessions here start pre-consented: the web widget
// collects consent in its own UI before the first message.
func (h Handlers) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	sess := h.Registry.GetOrCreate(c.Request().Context(), req.SessionID, true)
	reply := sess.HandleTurn(c.Request().Context(), req.Message)
	return c.JSON(http.StatusOK, chatResponse{Reply: reply, SessionID: req.SessionID})
}

func (h Handlers) callToken(c echo.Context) error {
	token, err := h.Tokens.Mint(c.Request().Context())
	if err != nil {
		c.Echo().Logger.Errorf("failed to mint call token: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "could not create call session"})
	}
	return c.JSON(http.StatusOK, token)
}

func (h Handlers) callWebSocket(c echo.Context) error {
	callID := c.Param("call_id")
	if callID == "" {
		return c.String(http.StatusBadRequest, "call_id is required")
	}
	h.Voice.ServeWebSocket(c.Response(), c.Request(), callID)
	return nil
}
