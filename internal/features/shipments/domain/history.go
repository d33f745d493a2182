package domain

import (
	"strings"

	"courier-bridge/internal/core/courier"
)

// LevelFinal is the status level of an event that ends the shipment.
const LevelFinal = "Final"

// CodeNone replaces a blank remote status code.
const CodeNone = "NONE"

// Description locales supplied by the courier.
const (
	LocaleGreek   = "el"
	LocaleEnglish = "en"
)

// Conclusion is the final outcome of a shipment.
type Conclusion string

const (
	ConclusionNone      Conclusion = ""
	ConclusionCompleted Conclusion = "completed"
	ConclusionCancelled Conclusion = "cancelled"
	ConclusionFailed    Conclusion = "failed"
)

// completedCodes are the final status codes of a delivered shipment.
var completedCodes = map[string]bool{
	"ΠΡΔ": true,
	"COD": true,
	"OK":  true,
}

// cancelledCode is the final status code of a shipment cancelled at the courier.
const cancelledCode = "AKY"

// ConclusionFor derives the conclusion of an event from its level and status code.
// Only Final events conclude; any final code other than the delivered and cancelled
// ones is a failed delivery.
func ConclusionFor(level, code string) Conclusion {
	if level != LevelFinal {
		return ConclusionNone
	}
	switch {
	case completedCodes[code]:
		return ConclusionCompleted
	case code == cancelledCode:
		return ConclusionCancelled
	default:
		return ConclusionFailed
	}
}

// Action is a sub-event attached to a status, e.g. a delivery attempt.
type Action struct {
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Event is a normalized entry of a voucher's status history.
type Event struct {
	Code             string     `json:"code"`
	Level            string     `json:"level"`
	LevelDescription string     `json:"level_description"`
	Conclusion       Conclusion `json:"conclusion,omitempty"`
	Description      string     `json:"description"`
	Comments         string     `json:"comments"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Actions          []Action   `json:"actions,omitempty"`
	PartTrackingNum  string     `json:"part_tracking_num,omitempty"`
}

// IsFinal reports whether the event ends the shipment.
func (e Event) IsFinal() bool {
	return e.Level == LevelFinal
}

// key identifies an event across repeated remote rows.
func (e Event) key() string {
	return e.Date + "\x00" + e.Time + "\x00" + e.Code
}

// History is the normalized status history of a voucher, in the order the courier sent it.
type History struct {
	Voucher string  `json:"voucher"`
	Events  []Event `json:"events"`
}

// Last returns the authoritative event.
func (h *History) Last() (Event, bool) {
	if h == nil || len(h.Events) == 0 {
		return Event{}, false
	}
	return h.Events[len(h.Events)-1], true
}

// Classification is the status definition of a code.
type Classification struct {
	Level       string
	Description string
}

// Classifier resolves the definition of a status code.
type Classifier func(code string) (Classification, error)

// Normalize turns raw history rows into events. Rows sharing date, time and code
// collapse into the first one seen; the actions of every such row are appended to it.
// A blank code becomes CodeNone. locale selects the English descriptions when set to
// LocaleEnglish, falling back to the local ones when the English text is blank.
func Normalize(voucher string, entries []courier.HistoryEntry, locale string, classify Classifier) (*History, error) {
	history := &History{Voucher: voucher, Events: make([]Event, 0, len(entries))}
	index := make(map[string]int, len(entries))

	for _, entry := range entries {
		code := entry.Code
		if code == "" {
			code = CodeNone
		}

		event := Event{Code: code, Date: entry.Date, Time: entry.Time}
		action := Action{
			Description: localized(locale, entry.ActionDescription, entry.ActionDescriptionEn),
			Date:        entry.ActionDate,
			Time:        entry.ActionTime,
		}

		if i, ok := index[event.key()]; ok {
			if action.Description != "" {
				history.Events[i].Actions = append(history.Events[i].Actions, action)
			}
			if history.Events[i].PartTrackingNum == "" {
				history.Events[i].PartTrackingNum = entry.PartTrackingNum
			}
			continue
		}

		class, err := classify(code)
		if err != nil {
			return nil, err
		}
		event.Level = class.Level
		event.LevelDescription = class.Description
		event.Conclusion = ConclusionFor(class.Level, code)
		event.Description = localized(locale, entry.Description, entry.DescriptionEn)
		event.Comments = entry.Comments
		event.PartTrackingNum = entry.PartTrackingNum
		if action.Description != "" {
			event.Actions = append(event.Actions, action)
		}

		index[event.key()] = len(history.Events)
		history.Events = append(history.Events, event)
	}
	return history, nil
}

func localized(locale, local, english string) string {
	if locale == LocaleEnglish && english != "" {
		return english
	}
	if local == "" {
		return english
	}
	return local
}

// FailureNote describes an unsuccessful delivery: the level description of the last
// event followed by every event, newest first, as "date-time: comments".
func FailureNote(events []Event) string {
	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(events[len(events)-1].LevelDescription)
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		comments := strings.TrimSpace(e.Comments)
		if comments == "" {
			comments = "none"
		}
		b.WriteString("\n")
		b.WriteString(e.Date + "-" + e.Time + ": " + comments)
	}
	return b.String()
}
