package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const clockLayout = "15:04"

// Errors maps a field name to the first message recorded for it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Add(field, message string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = message
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns nil when nothing was recorded so callers can `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Field(field, message string) Errors {
	return Errors{field: message}
}

func (e Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
		return false
	}
	return true
}

func (e Errors) MaxLength(field, value string, max int) bool {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, fmt.Sprintf("must be at most %d characters", max))
		return false
	}
	return true
}

// RequiredMax trims the value and applies Required and MaxLength.
func (e Errors) RequiredMax(field string, value *string, max int) {
	*value = strings.TrimSpace(*value)
	if e.Required(field, *value) {
		e.MaxLength(field, *value, max)
	}
}

func ParseClock(value string) (time.Time, bool) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ClockRange validates an HH:MM window where end must be strictly after start.
// Both values are rewritten to their canonical form.
func (e Errors) ClockRange(startField string, start *string, endField string, end *string) {
	startAt, startOK := ParseClock(*start)
	if !startOK {
		e.Add(startField, "must be a time in HH:MM format")
	} else {
		*start = startAt.Format(clockLayout)
	}

	endAt, endOK := ParseClock(*end)
	if !endOK {
		e.Add(endField, "must be a time in HH:MM format")
		return
	}
	*end = endAt.Format(clockLayout)

	if startOK && !endAt.After(startAt) {
		e.Add(endField, "must be after "+startField)
	}
}

var weekdays = map[string]struct{}{
	"lunes":     {},
	"martes":    {},
	"miercoles": {},
	"jueves":    {},
	"viernes":   {},
	"sabado":    {},
	"domingo":   {},
}

// NormalizeWeekday folds a Spanish weekday name to lowercase without accents.
func NormalizeWeekday(value string) (string, bool) {
	folded := fold(value)
	if _, ok := weekdays[folded]; !ok {
		return "", false
	}
	return folded, true
}

func fold(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.TrimSpace(value))
	if err != nil {
		result = value
	}
	return strings.ToLower(result)
}

// Weekdays validates and normalizes a day list, recording errors under field.
func (e Errors) Weekdays(field string, days []string) []string {
	if len(days) == 0 {
		e.Add(field, "must contain at least one day")
		return nil
	}

	seen := make(map[string]struct{}, len(days))
	result := make([]string, 0, len(days))
	for _, day := range days {
		normalized, ok := NormalizeWeekday(day)
		if !ok {
			e.Add(field, fmt.Sprintf("%q is not a valid weekday", day))
			return nil
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}
