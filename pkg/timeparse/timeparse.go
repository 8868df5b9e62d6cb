// Package timeparse converts deadline text into absolute timestamps. It
// accepts common absolute layouts plus a small set of relative expressions;
// anything else is an error so callers can surface the offending input.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day keywords resolve to the end of the named day (23:59:59): a "today"
// deadline set at noon must still lie ahead, and midnight would put it in the
// past the moment it is created.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04", // datetime-local inputs
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parser resolves deadline text against an injected clock.
type Parser struct {
	now func() time.Time
}

// New builds a parser. A nil clock falls back to time.Now.
func New(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// Parse converts input into an absolute timestamp.
func (p *Parser) Parse(input string) (time.Time, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	now := p.now()

	switch value {
	case "now":
		return now, nil
	case "today":
		return endOfDay(now), nil
	case "tomorrow":
		return endOfDay(now.AddDate(0, 0, 1)), nil
	}

	if d, ok := parseRelative(value); ok {
		return now.Add(d), nil
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, strings.TrimSpace(input), now.Location()); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD, RFC3339 or e.g. \"in 3 hours\")", input)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// parseRelative handles "in N minutes|hours|days".
func parseRelative(value string) (time.Duration, bool) {
	fields := strings.Fields(value)
	if len(fields) != 3 || fields[0] != "in" {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return 0, false
	}
	switch strings.TrimSuffix(fields[2], "s") {
	case "minute", "min":
		return time.Duration(n) * time.Minute, true
	case "hour":
		return time.Duration(n) * time.Hour, true
	case "day":
		return time.Duration(n) * 24 * time.Hour, true
	}
	return 0, false
}
