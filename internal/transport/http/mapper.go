package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

var statusByCode = map[string]int{
	core.ErrCodeValidation:       http.StatusUnprocessableEntity,
	core.ErrCodeNotFound:         http.StatusNotFound,
	core.ErrCodeConflict:         http.StatusConflict,
	core.ErrCodeForbidden:        http.StatusForbidden,
	core.ErrCodeStoreUnavailable: http.StatusInternalServerError,
}

// writeError maps a core error onto a response. overrides lets a route pick its own
// status for a code (posting as an absent author is 422, deleting someone else's message is 401).
// Store failures are logged and answered with a generic body.
func writeError(c *gin.Context, logger *zerolog.Logger, err error, overrides map[string]int) {
	var ce *core.CoreError
	if !errors.As(err, &ce) {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	status, ok := overrides[ce.Code]
	if !ok {
		status = statusByCode[ce.Code]
	}
	if status == 0 || status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("store operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	logger.Debug().Err(err).Str("code", ce.Code).Int("status", status).Msg("request rejected")
	c.JSON(status, ErrorResponse{Error: ce.Message, Details: ce.Details})
}

func participantsResponse(participants []*store.Participant) []proto.Participant {
	return lo.Map(participants, func(p *store.Participant, _ int) proto.Participant {
		return proto.FromParticipant(p)
	})
}

func messagesResponse(messages []*store.Message) []proto.Message {
	return lo.Map(messages, func(m *store.Message, _ int) proto.Message {
		return proto.FromMessage(m)
	})
}

func messageInput(req proto.MessageRequest) core.MessageInput {
	return core.MessageInput{To: req.To, Text: req.Text, Kind: store.Kind(req.Type)}
}
