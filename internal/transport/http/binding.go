package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/core"
)

// bindFields reads a JSON object body and returns the string values of keys.
// An empty body counts as an empty object and absent or null keys are empty
// strings, so missing fields surface as validation failures downstream.
// Bodies that are not JSON are answered with 400. Keys holding a non-string
// value are answered with 422 together with every other violation validate reports.
func bindFields(c *gin.Context, logger *zerolog.Logger, validate func(map[string]string) error, keys ...string) (map[string]string, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		logger.Debug().Err(err).Msg("failed to read request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return nil, false
	}

	values := make(map[string]string, len(keys))
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return values, true
	}
	if !json.Valid(raw) {
		logger.Debug().Msg("request body is not valid JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return nil, false
	}

	// Valid JSON that is not an object carries none of the fields.
	var object map[string]json.RawMessage
	_ = json.Unmarshal(raw, &object)

	var mistyped []string
	for _, key := range keys {
		field, ok := object[key]
		if !ok || string(field) == "null" {
			continue
		}
		var value string
		if err := json.Unmarshal(field, &value); err != nil {
			mistyped = append(mistyped, key)
			continue
		}
		values[key] = value
	}

	if len(mistyped) > 0 {
		writeFieldTypeError(c, logger, mistyped, validate(values))
		return nil, false
	}
	return values, true
}

// writeFieldTypeError answers 422 listing each mistyped field first, then the
// violations validation found on the remaining fields.
func writeFieldTypeError(c *gin.Context, logger *zerolog.Logger, mistyped []string, validationErr error) {
	details := lo.Map(mistyped, func(key string, _ int) string {
		return fmt.Sprintf("%q must be a string", key)
	})

	var ce *core.CoreError
	if validationErr != nil && errors.As(validationErr, &ce) {
		for _, detail := range ce.Details {
			if !lo.SomeBy(mistyped, func(key string) bool { return strings.HasPrefix(detail, strconv.Quote(key)+" ") }) {
				details = append(details, detail)
			}
		}
	}

	logger.Debug().Strs("details", details).Msg("request rejected")
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: core.ErrValidation.Error(), Details: details})
}
