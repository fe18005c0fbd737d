package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fieldworks/skiptrace/internal/brain"
)

// Operator field reports are authoritative over model-derived probabilities.
// The fixed markers below are recorded on the affected location's reasoning
// trail so later analysis passes see the correction.
const (
	noGoMarker      = "OPERATOR REPORT: checked and cleared, no-go"
	confirmedMarker = "OPERATOR REPORT: subject confirmed at this location"
)

type feedbackKind int

const (
	feedbackNone feedbackKind = iota
	feedbackNoGo
	feedbackConfirmed
)

type feedback struct {
	Kind  feedbackKind
	Place string
}

// feedbackMatchers is evaluated in priority order; the first pattern that
// matches wins. Each matcher extracts the place fragment from the utterance.
var feedbackMatchers = []struct {
	kind    feedbackKind
	pattern *regexp.Regexp
}{
	{feedbackConfirmed, regexp.MustCompile(`(?i)\b(?:caught|found|spotted|seen|located)\b.*?\bat\s+(.+?)[.!?]*$`)},
	{feedbackNoGo, regexp.MustCompile(`(?i)\bno[\s-]?go on\s+(.+?)[.!?]*$`)},
	{feedbackNoGo, regexp.MustCompile(`(?i)^(.+?)\s+(?:is|was)\s+(?:a\s+)?(?:no[\s-]?go|no good|bad|dead end)\b`)},
	{feedbackNoGo, regexp.MustCompile(`(?i)^(.+?)\s+didn'?t work\b`)},
}

// detectFeedback classifies an operator utterance as a no-go report, a
// confirmed sighting, or neither.
func detectFeedback(text string) feedback {
	trimmed := strings.TrimSpace(text)
	for _, matcher := range feedbackMatchers {
		if match := matcher.pattern.FindStringSubmatch(trimmed); match != nil {
			return feedback{Kind: matcher.kind, Place: strings.TrimSpace(match[1])}
		}
	}
	return feedback{Kind: feedbackNone}
}

// applyFeedback rewrites the ranked locations for one operator report.
// Callers must hold the mutex.
//
// Matching is substring containment between the place fragment and each
// address, deliberately biased toward over-matching: a false positive is more
// tolerable than silently ignoring operator ground truth.
func (o *Orchestrator) applyFeedback(report feedback) string {
	place := strings.ToLower(report.Place)
	matched := 0

	locations := make([]brain.RankedLocation, len(o.context.TopLocations))
	copy(locations, o.context.TopLocations)

	for i := range locations {
		address := strings.ToLower(locations[i].Address)
		if !strings.Contains(address, place) && !strings.Contains(place, address) {
			continue
		}
		matched++
		switch report.Kind {
		case feedbackNoGo:
			locations[i].Probability = 0
			locations[i].Reasoning = append(copyStrings(locations[i].Reasoning), noGoMarker)
		case feedbackConfirmed:
			locations[i].Probability = 100
			locations[i].Reasoning = append([]string{confirmedMarker}, locations[i].Reasoning...)
		}
	}

	if matched == 0 {
		return fmt.Sprintf("No ranked location matched %q; ranking unchanged.", report.Place)
	}

	if report.Kind == feedbackNoGo {
		// Zero-probability entries are pruned, not merely demoted.
		kept := locations[:0]
		for _, location := range locations {
			if location.Probability > 0 {
				kept = append(kept, location)
			}
		}
		locations = kept
	}

	o.context.TopLocations = brain.Rerank(locations)
	o.context.Confidence = brain.MeanConfidence(o.context.TopLocations)

	switch report.Kind {
	case feedbackNoGo:
		return fmt.Sprintf("Understood. Removed %d location(s) matching %q from the ranking.", matched, report.Place)
	default:
		return fmt.Sprintf("Confirmed sighting at %q recorded; ranking updated.", report.Place)
	}
}

func copyStrings(items []string) []string {
	copied := make([]string, len(items))
	copy(copied, items)
	return copied
}
