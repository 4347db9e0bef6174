package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phen19/projeto12-batepapo-uol-api/internal/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations by their wire name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ParticipantInput is the record validated on join.
type ParticipantInput struct {
	Name string `json:"name" validate:"required"`
}

// MessageInput is the record validated on post and edit.
// Status messages are synthesized by the server and cannot be posted.
type MessageInput struct {
	To   string     `json:"to" validate:"required"`
	Text string     `json:"text" validate:"required"`
	Kind store.Kind `json:"type" validate:"required,oneof=message private_message"`
}

func (in ParticipantInput) sanitized() ParticipantInput {
	return ParticipantInput{Name: Sanitize(in.Name)}
}

func (in MessageInput) sanitized() MessageInput {
	return MessageInput{
		To:   Sanitize(in.To),
		Text: Sanitize(in.Text),
		Kind: store.Kind(strings.TrimSpace(string(in.Kind))),
	}
}

// Validate sanitizes in and reports every violated constraint.
func (in ParticipantInput) Validate() error {
	return checkStruct(in.sanitized())
}

// Validate sanitizes in and reports every violated constraint.
func (in MessageInput) Validate() error {
	return checkStruct(in.sanitized())
}

// checkStruct evaluates every constraint and collects all violations.
func checkStruct(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationError([]string{err.Error()})
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describe(fe))
	}
	return validationError(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q failed on %q", fe.Field(), fe.Tag())
	}
}
