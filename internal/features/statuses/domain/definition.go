package domain

import (
	"time"
)

// Status levels reported by the courier.
const (
	LevelPending = "Pending"
	LevelFinal   = "Final"
	// LevelNone classifies events without a status code.
	LevelNone = "None"
)

// CodeNone is the synthetic code of events the courier sent without a status code.
const CodeNone = "NONE"

// MinEntries is the size below which a stored set is considered unpopulated.
const MinEntries = 3

// TTL is the age after which a stored set is refreshed.
const TTL = 7 * 24 * time.Hour

// Definition describes a courier status code.
type Definition struct {
	// Level is the finality class of the status (e.g. Pending, Final).
	Level string `json:"level"`
	// Description is the courier's human description.
	Description string `json:"description"`
}

// IsFinal reports whether the status ends the shipment.
func (d Definition) IsFinal() bool {
	return d.Level == LevelFinal
}

// Set is the complete set of status definitions, stored and replaced as one unit.
type Set struct {
	// Definitions maps a status code to its definition.
	Definitions map[string]Definition `json:"definitions"`
	// UpdatedAt is when the set was fetched from the courier.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSet builds a set stamped at now, adding the synthetic NONE entry.
func NewSet(defs map[string]Definition, now time.Time) *Set {
	all := make(map[string]Definition, len(defs)+1)
	for code, def := range defs {
		all[code] = def
	}
	all[CodeNone] = Definition{Level: LevelNone, Description: "No status information"}
	return &Set{Definitions: all, UpdatedAt: now}
}

// Populated reports whether the set holds enough entries to be used.
func (s *Set) Populated() bool {
	return s != nil && len(s.Definitions) >= MinEntries
}

// Expired reports whether the set is older than TTL at now.
func (s *Set) Expired(now time.Time) bool {
	return s == nil || now.Sub(s.UpdatedAt) > TTL
}

// Lookup returns the definition of code.
func (s *Set) Lookup(code string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.Definitions[code]
	return def, ok
}
