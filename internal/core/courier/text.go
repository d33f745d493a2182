package courier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"courier-bridge/internal/core/apperrors"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// TruncationMarker is appended to a value cut to fit its field.
const TruncationMarker = "…"

// DefaultFieldLimit is the maximum length of a text field without a specific limit.
const DefaultFieldLimit = 40

// fieldLimits lists the fields whose limit differs from DefaultFieldLimit.
var fieldLimits = map[string]int{
	"R_Email":     60,
	"Comments":    1000,
	"Multi_Prod":  1000,
	"Mod_Message": 1000,
}

// structuredFields carry machine-readable lists that must never be cut.
var structuredFields = map[string]bool{
	"Multi_Prod": true,
}

// FieldLimit returns the maximum length, in characters, of a request field.
func FieldLimit(field string) int {
	if limit, ok := fieldLimits[field]; ok {
		return limit
	}
	return DefaultFieldLimit
}

// Truncate shortens s to at most limit characters. A cut value keeps its first
// limit-1 characters followed by TruncationMarker.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + TruncationMarker
}

// ToUTF8 returns s as NFC-normalized UTF-8. Byte sequences that are not valid
// UTF-8 are decoded as ISO-8859-7, the legacy Greek charset of store exports.
func ToUTF8(s string) string {
	if !utf8.ValidString(s) {
		decoded, err := charmap.ISO8859_7.NewDecoder().String(s)
		if err != nil {
			decoded = strings.ToValidUTF8(s, "")
		}
		s = decoded
	}
	return norm.NFC.String(strings.TrimSpace(s))
}

// Sanitize prepares a value for the given request field. Structured fields are only
// re-encoded; CheckLength must reject them when too long.
func Sanitize(field, value string) string {
	if structuredFields[field] {
		return ToUTF8(value)
	}
	return Truncate(ToUTF8(value), FieldLimit(field))
}

// CheckLength returns *apperrors.ValidationError when a structured field exceeds
// its limit. Free-text fields are truncated instead and always pass.
func CheckLength(field, value string) error {
	if !structuredFields[field] {
		return nil
	}
	limit := FieldLimit(field)
	if n := utf8.RuneCountInString(ToUTF8(value)); n > limit {
		return &apperrors.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%d characters exceed the limit of %d", n, limit),
		}
	}
	return nil
}
