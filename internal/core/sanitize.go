package core

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextTransform rewrites a free-text field before validation.
type TextTransform func(string) string

var strictPolicy = bluemonday.StrictPolicy()

// maxDecodeRounds bounds how many layers of entity encoding StripMarkup peels.
const maxDecodeRounds = 8

// StripMarkup removes every HTML element, keeping only text content.
// Entity-encoded markup is decoded and stripped too, layer by layer, until
// decoding and sanitizing no longer changes the value. Only then are the
// entities bluemonday emitted for plain text decoded back, so the result
// never contains an element.
func StripMarkup(s string) string {
	escaped := strictPolicy.Sanitize(s)
	for i := 0; i < maxDecodeRounds; i++ {
		next := strictPolicy.Sanitize(html.UnescapeString(escaped))
		if next == escaped {
			return html.UnescapeString(escaped)
		}
		escaped = next
	}
	// Still changing: keep the escaped form rather than risk decoding markup.
	return escaped
}

// Chain composes transforms left to right.
func Chain(transforms ...TextTransform) TextTransform {
	return func(s string) string {
		for _, t := range transforms {
			s = t(s)
		}
		return s
	}
}

// Sanitize is the transform applied to every free-text input.
var Sanitize = Chain(StripMarkup, strings.TrimSpace)
