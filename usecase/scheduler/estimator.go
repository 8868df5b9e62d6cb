package scheduler

import (
	"strings"
	"time"

	"github.com/prioplan/backend/domain"
)

var (
	urgentKeywords = []string{"urgent", "asap", "immediately"}
	highKeywords   = []string{"high", "important"}
	lowKeywords    = []string{"low", "whenever"}
)

// Estimate is the heuristic output for a task created without an explicit
// priority.
type Estimate struct {
	Priority int
	Tags     []string
	Minutes  int
}

// EstimateTask derives priority, tags and effort from free text and an
// optional deadline. Keyword classes are checked in precedence order (the
// first matching class governs); a supplied deadline can only tighten the
// priority, never loosen it.
func EstimateTask(title, description string, deadline *time.Time, now time.Time) Estimate {
	text := strings.ToLower(title + " " + description)

	priority := domain.DefaultPriority
	var tags []string

	switch {
	case containsAny(text, urgentKeywords):
		priority = 1
		tags = append(tags, "urgent")
	case containsAny(text, highKeywords):
		priority = min(priority, 2)
		tags = append(tags, "high")
	case containsAny(text, lowKeywords):
		priority = max(priority, 7)
		tags = append(tags, "low")
	}

	if deadline != nil {
		remaining := deadline.Sub(now)
		switch {
		case remaining <= 12*time.Hour:
			priority = min(priority, 1)
			tags = append(tags, "due_12h")
		case remaining <= 24*time.Hour:
			priority = min(priority, 2)
			tags = append(tags, "due_24h")
		case remaining <= 3*24*time.Hour:
			priority = min(priority, 3)
			tags = append(tags, "due_3d")
		}
	}

	words := len(strings.Fields(description))
	minutes := 8 * (words/20 + 1)
	minutes = max(15, min(minutes, 80))

	return Estimate{Priority: priority, Tags: tags, Minutes: minutes}
}

// NaturalParse is the output of the natural-language creation assist.
type NaturalParse struct {
	Title       string
	Description string
	Deadline    *time.Time
	UrgencyHint bool
}

// ParseNatural is a best-effort stub, not a natural-language understanding
// system: it truncates the text into a title, spots "tomorrow"/"today" as a
// rough deadline ("tomorrow" wins when both appear) and flags tier-A urgency
// keywords. Its vocabulary is deliberately frozen.
func ParseNatural(text string, now time.Time) NaturalParse {
	out := NaturalParse{
		Title:       text,
		Description: text,
	}
	if runes := []rune(text); len(runes) > 60 {
		out.Title = string(runes[:57]) + "..."
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "tomorrow") {
		d := now.Add(24 * time.Hour)
		out.Deadline = &d
	} else if strings.Contains(lower, "today") {
		d := now
		out.Deadline = &d
	}
	out.UrgencyHint = containsAny(lower, urgentKeywords)
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
