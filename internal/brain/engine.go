package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fieldworks/skiptrace/internal/ai"
	"github.com/fieldworks/skiptrace/internal/errors"
	"github.com/fieldworks/skiptrace/internal/extract"
)

// WebFinding is one piece of web evidence (OSINT hit, scraped page, manual
// find) attributed to the tool or site that produced it.
type WebFinding struct {
	Source  string `json:"source"`
	Summary string `json:"summary"`
	URL     string `json:"url,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Evidence is the provenance-separated input to one analysis pass. Keeping
// documents, photo analysis, and web findings apart lets the reasoning step
// weight them by source reliability and recency.
type Evidence struct {
	TargetName     string
	Extracted      extract.Data
	VisualAnalyses []extract.VisualAnalysis
	WebFindings    []WebFinding
}

const analysisSystemPrompt = `You are the cross-reference engine for a fugitive-recovery investigation.
Given evidence grouped by provenance, produce claims connecting the evidence and a probability-ranked list of locations to check.
Weight document evidence above photo analysis and photo analysis above unverified web findings; prefer recent evidence.
Respond with a single JSON object:
{"crossReferences":[{"type":"address_match|phone_match|person_connection|vehicle_sighting|pattern|timeline","description":"","confidence":0,"evidence":[],"sources":[],"implication":""}],
 "locations":[{"address":"","probability":0,"type":"target_residence|work|family|associate|frequent_location","reasoning":[],"sources":[],"bestTime":"","whoMightBeThere":"","risks":""}],
 "actionPlan":[],
 "openQuestions":[]}
Probabilities and confidences are integers 0-100.`

const updateSystemPrompt = `You are adjusting an existing ranked list of locations for a fugitive-recovery investigation.
Given the current list and one new piece of evidence, return only the adjustments it justifies.
Respond with a single JSON object: {"adjustments":[{"address":"","probability":0,"reason":""}]}
Reference addresses exactly as listed. Leave out locations the evidence does not affect.`

// Engine produces cross-references and ranked locations from case evidence.
type Engine struct {
	completer ai.Completer
	logger    *slog.Logger
}

func NewEngine(completer ai.Completer, logger *slog.Logger) *Engine {
	return &Engine{
		completer: completer,
		logger:    logger.With("source", "brain.Engine"),
	}
}

// Analyze runs one full cross-reference pass. A provider failure is returned
// as an error; malformed provider JSON degrades to an empty analysis. The
// returned locations are always reranked and clamped to 0-100.
func (e *Engine) Analyze(ctx context.Context, evidence Evidence) (Analysis, error) {
	raw, err := e.completer.CompleteJSON(ctx, analysisSystemPrompt, BuildEvidenceSummary(evidence))
	if err != nil {
		return Analysis{}, errors.Wrap(err, "cross-reference completion",
			slog.String("target", evidence.TargetName))
	}

	var analysis Analysis
	if err = json.Unmarshal([]byte(raw), &analysis); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "malformed analysis payload, using empty analysis",
			slog.String("target", evidence.TargetName), errors.SlogError(err))
		return Analysis{}, nil
	}

	for i := range analysis.Locations {
		analysis.Locations[i].Probability = clampProbability(analysis.Locations[i].Probability)
	}
	analysis.Locations = Rerank(analysis.Locations)
	return analysis, nil
}

type probabilityAdjustment struct {
	Address     string `json:"address"`
	Probability int    `json:"probability"`
	Reason      string `json:"reason"`
}

// UpdateProbabilities is the lightweight incremental path: it adjusts the
// current ranked list against one new evidence string without re-deriving
// everything from scratch. Unmatched existing locations pass through
// unchanged. The result is always reranked.
func (e *Engine) UpdateProbabilities(
	ctx context.Context,
	locations []RankedLocation,
	newEvidence string,
) ([]RankedLocation, error) {
	if len(locations) == 0 {
		return locations, nil
	}

	raw, err := e.completer.CompleteJSON(ctx, updateSystemPrompt, buildUpdatePrompt(locations, newEvidence))
	if err != nil {
		return nil, errors.Wrap(err, "probability update completion")
	}

	var payload struct {
		Adjustments []probabilityAdjustment `json:"adjustments"`
	}
	if err = json.Unmarshal([]byte(raw), &payload); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "malformed adjustment payload, keeping current ranking",
			errors.SlogError(err))
		return Rerank(locations), nil
	}

	return applyAdjustments(locations, payload.Adjustments), nil
}

// applyAdjustments folds probability adjustments into the list. Matching is
// by substring containment of each address's first comma-segment, biased
// toward over-matching.
func applyAdjustments(locations []RankedLocation, adjustments []probabilityAdjustment) []RankedLocation {
	adjusted := make([]RankedLocation, len(locations))
	copy(adjusted, locations)

	for _, adjustment := range adjustments {
		for i := range adjusted {
			if !locationMatches(adjusted[i].Address, adjustment.Address) {
				continue
			}
			adjusted[i].Probability = clampProbability(adjustment.Probability)
			if adjustment.Reason != "" {
				adjusted[i].Reasoning = append(copyStrings(adjusted[i].Reasoning), adjustment.Reason)
			}
		}
	}
	return Rerank(adjusted)
}

// locationMatches compares the first comma-segments of both addresses with
// bidirectional substring containment.
func locationMatches(address string, candidate string) bool {
	a := firstSegment(address)
	b := firstSegment(candidate)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func firstSegment(address string) string {
	segment, _, _ := strings.Cut(address, ",")
	return strings.ToLower(strings.TrimSpace(segment))
}

// BuildEvidenceSummary renders the evidence grouped by provenance for the
// reasoning call.
func BuildEvidenceSummary(evidence Evidence) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TARGET: %s\n", evidence.TargetName)

	b.WriteString("\n== DOCUMENT EXTRACTION ==\n")
	writeExtracted(&b, evidence.Extracted)

	b.WriteString("\n== PHOTO ANALYSIS ==\n")
	if len(evidence.VisualAnalyses) == 0 {
		b.WriteString("(none)\n")
	}
	for _, analysis := range evidence.VisualAnalyses {
		fmt.Fprintf(&b, "[%s] %s\n", analysis.Source, analysis.Summary)
		for _, observation := range analysis.Observations {
			fmt.Fprintf(&b, "  - %s\n", observation)
		}
	}

	b.WriteString("\n== WEB FINDINGS ==\n")
	if len(evidence.WebFindings) == 0 {
		b.WriteString("(none)\n")
	}
	for _, finding := range evidence.WebFindings {
		fmt.Fprintf(&b, "[%s] %s", finding.Source, finding.Summary)
		if finding.URL != "" {
			fmt.Fprintf(&b, " <%s>", finding.URL)
		}
		b.WriteString("\n")
		if finding.Detail != "" {
			fmt.Fprintf(&b, "  %s\n", finding.Detail)
		}
	}

	return b.String()
}

func writeExtracted(b *strings.Builder, data extract.Data) {
	for _, subject := range data.Subjects {
		fmt.Fprintf(b, "subject: %s (%s) [%s]\n", subject.Name, subject.Details, subject.Source)
	}
	for _, address := range data.Addresses {
		fmt.Fprintf(b, "address: %s (%s) [%s]\n", address.Address, address.Label, address.Source)
	}
	for _, phone := range data.Phones {
		fmt.Fprintf(b, "phone: %s (%s) [%s]\n", phone.Number, phone.Label, phone.Source)
	}
	for _, vehicle := range data.Vehicles {
		fmt.Fprintf(b, "vehicle: %s %s [%s]\n", vehicle.Description, vehicle.Plate, vehicle.Source)
	}
	for _, relative := range data.Relatives {
		fmt.Fprintf(b, "relative: %s [%s]\n", relative.Description, relative.Source)
	}
	for _, employer := range data.Employers {
		fmt.Fprintf(b, "employer: %s [%s]\n", employer.Description, employer.Source)
	}
	for _, social := range data.SocialMedia {
		fmt.Fprintf(b, "social: %s:%s %s [%s]\n", social.Platform, social.Username, social.URL, social.Source)
	}
}

func buildUpdatePrompt(locations []RankedLocation, newEvidence string) string {
	var b strings.Builder
	b.WriteString("CURRENT RANKING:\n")
	for _, location := range locations {
		fmt.Fprintf(&b, "%d. %s (%d%%)\n", location.Rank, location.Address, location.Probability)
	}
	fmt.Fprintf(&b, "\nNEW EVIDENCE:\n%s\n", newEvidence)
	return b.String()
}

func clampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func copyStrings(items []string) []string {
	copied := make([]string, len(items))
	copy(copied, items)
	return copied
}
