package live

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/roster"
)

// ProgramLister supplies the program-code mapping needed to build a scope
type ProgramLister interface {
	GetAllPrograms(ctx context.Context) ([]models.Program, error)
}

// Handler upgrades dashboard connections onto the hub
type Handler struct {
	hub      *Hub
	programs ProgramLister
	logger   zerolog.Logger
}

// NewHandler creates a new live feed handler
func NewHandler(hub *Hub, programs ProgramLister, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		programs: programs,
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to the live dashboard feed
// @Description Upgrades the HTTP connection to a WebSocket pushing change events scoped to the caller's visibility
// @Tags live
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /live [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	role := c.GetString("role")
	sections, _ := c.Get("sections")
	programCodes, _ := c.Get("programs")

	programs, err := h.programs.GetAllPrograms(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to load programs for feed scope")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve visibility scope"})
		return
	}

	scope := roster.ScopeFor(
		models.RoleType(role),
		toStrings(sections),
		toStrings(programCodes),
		programs,
	)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to upgrade live feed connection")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		scope:  scope,
		logger: h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Dashboard feed connection established")
}

func toStrings(v interface{}) []string {
	if s, ok := v.([]string); ok {
		return s
	}
	return nil
}
