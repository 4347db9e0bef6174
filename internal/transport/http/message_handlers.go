package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
	"github.com/phen19/projeto12-batepapo-uol-api/internal/proto"
)

// Absent authors and editors are reported as unprocessable input; deleting
// someone else's message is unauthorized.
var (
	postOverrides   = map[string]int{core.ErrCodeForbidden: http.StatusUnprocessableEntity}
	editOverrides   = map[string]int{core.ErrCodeForbidden: http.StatusUnprocessableEntity}
	deleteOverrides = map[string]int{core.ErrCodeForbidden: http.StatusUnauthorized}
)

// MessageHandlers provides HTTP handlers for message endpoints.
type MessageHandlers struct {
	chatLog *core.ChatLog
	log     *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(chatLog *core.ChatLog, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		chatLog: chatLog,
		log:     logger,
	}
}

var messageKeys = []string{"to", "text", "type"}

func bindMessage(c *gin.Context, logger *zerolog.Logger) (proto.MessageRequest, bool) {
	fields, ok := bindFields(c, logger, func(fields map[string]string) error {
		return messageInput(messageRequest(fields)).Validate()
	}, messageKeys...)
	if !ok {
		return proto.MessageRequest{}, false
	}
	return messageRequest(fields), true
}

func messageRequest(fields map[string]string) proto.MessageRequest {
	return proto.MessageRequest{To: fields["to"], Text: fields["text"], Type: fields["type"]}
}

// Post handles sending a message as the User header.
// POST /messages
func (h *MessageHandlers) Post(c *gin.Context) {
	req, ok := bindMessage(c, h.log)
	if !ok {
		return
	}

	msg, err := h.chatLog.Post(c.Request.Context(), currentUser(c), messageInput(req))
	if err != nil {
		writeError(c, h.log, err, postOverrides)
		return
	}

	h.log.Debug().Str("id", msg.ID).Str("from", msg.From).Str("type", string(msg.Kind)).Msg("message posted")
	c.JSON(http.StatusCreated, proto.FromMessage(msg))
}

// List returns the messages visible to the User header, optionally limited to the most recent.
// GET /messages?limit=N
func (h *MessageHandlers) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []string{`"limit" must be a positive integer`},
			})
			return
		}
		limit = n
	}

	messages, err := h.chatLog.Visible(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, messagesResponse(messages))
}

// Edit rewrites a message as the User header.
// PUT /messages/:id
func (h *MessageHandlers) Edit(c *gin.Context) {
	req, ok := bindMessage(c, h.log)
	if !ok {
		return
	}

	msg, err := h.chatLog.Edit(c.Request.Context(), c.Param("id"), currentUser(c), messageInput(req))
	if err != nil {
		writeError(c, h.log, err, editOverrides)
		return
	}

	h.log.Debug().Str("id", msg.ID).Str("editor", msg.From).Msg("message edited")
	c.JSON(http.StatusCreated, proto.FromMessage(msg))
}

// Delete removes a message authored by the User header.
// DELETE /messages/:id
func (h *MessageHandlers) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.chatLog.Delete(c.Request.Context(), id, currentUser(c)); err != nil {
		writeError(c, h.log, err, deleteOverrides)
		return
	}

	h.log.Debug().Str("id", id).Str("user", currentUser(c)).Msg("message deleted")
	c.Status(http.StatusOK)
}
