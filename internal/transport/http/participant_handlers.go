package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
)

// ParticipantHandlers provides HTTP handlers for presence endpoints.
type ParticipantHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewParticipantHandlers creates a new participant handlers instance.
func NewParticipantHandlers(registry *core.Registry, logger *zerolog.Logger) *ParticipantHandlers {
	return &ParticipantHandlers{
		registry: registry,
		log:      logger,
	}
}

// Join handles participant registration.
// POST /participants
func (h *ParticipantHandlers) Join(c *gin.Context) {
	fields, ok := bindFields(c, h.log, validateParticipant, "name")
	if !ok {
		return
	}
	req := proto.ParticipantRequest{Name: fields["name"]}

	p, err := h.registry.Join(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	h.log.Info().Str("event", core.EventUserJoined.String()).Str("participant", p.Name).Msg("participant entered the room")
	c.JSON(http.StatusCreated, proto.FromParticipant(p))
}

func validateParticipant(fields map[string]string) error {
	return core.ParticipantInput{Name: fields["name"]}.Validate()
}

// List handles listing present participants.
// GET /participants
func (h *ParticipantHandlers) List(c *gin.Context) {
	participants, err := h.registry.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, participantsResponse(participants))
}

// Heartbeat refreshes the caller's presence.
// POST /status
func (h *ParticipantHandlers) Heartbeat(c *gin.Context) {
	if err := h.registry.Heartbeat(c.Request.Context(), currentUser(c)); err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.Status(http.StatusOK)
}
