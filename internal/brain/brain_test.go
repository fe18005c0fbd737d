package brain_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fieldworks/skiptrace/internal/brain"
	"github.com/fieldworks/skiptrace/internal/extract"
	"github.com/stretchr/testify/require"
)

func TestRerank(t *testing.T) {
	t.Parallel()

	locations := []brain.RankedLocation{
		{Rank: 7, Address: "Gas Station X", Probability: 40},
		{Rank: 1, Address: "42 Megehee Ct", Probability: 80},
		{Rank: 2, Address: "88 Levee Rd", Probability: 55},
	}

	reranked := brain.Rerank(locations)

	require.Equal(t, "42 Megehee Ct", reranked[0].Address)
	require.Equal(t, "88 Levee Rd", reranked[1].Address)
	require.Equal(t, "Gas Station X", reranked[2].Address)
	for i, location := range reranked {
		require.Equal(t, i+1, location.Rank, "rank must be the 1-based sorted position")
	}

	// Input order is untouched.
	require.Equal(t, 7, locations[0].Rank)
}

func TestRerank_stableForTies(t *testing.T) {
	t.Parallel()

	locations := []brain.RankedLocation{
		{Address: "A", Probability: 50},
		{Address: "B", Probability: 50},
	}

	reranked := brain.Rerank(locations)
	require.Equal(t, "A", reranked[0].Address)
	require.Equal(t, "B", reranked[1].Address)
}

func TestMeanConfidence(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, brain.MeanConfidence(nil), "empty list has zero confidence")
	require.Equal(t, 60, brain.MeanConfidence([]brain.RankedLocation{
		{Probability: 80},
		{Probability: 40},
	}))
}

// fakeCompleter returns canned payloads for engine tests.
type fakeCompleter struct {
	response string
	err      error
}

func (f fakeCompleter) Complete(context.Context, string, string) (string, error) {
	return f.response, f.err
}

func (f fakeCompleter) CompleteJSON(context.Context, string, string) (string, error) {
	return f.response, f.err
}

func newTestEngine(completer fakeCompleter) *brain.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return brain.NewEngine(completer, logger)
}

func TestEngine_Analyze_reranksAndClamps(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(fakeCompleter{response: `{
		"crossReferences":[{"type":"address_match","description":"bond and pawn slip list the same street","confidence":85,"evidence":["e1"],"sources":["a.pdf","b.pdf"],"implication":"likely anchor address"}],
		"locations":[
			{"address":"Gas Station X","probability":40,"type":"frequent_location","reasoning":[],"sources":[]},
			{"address":"42 Megehee Ct","probability":140,"type":"family","reasoning":[],"sources":[]}
		],
		"actionPlan":["drive by 42 Megehee Ct"],
		"openQuestions":["who owns the Tahoe?"]
	}`})

	analysis, err := engine.Analyze(context.Background(), brain.Evidence{TargetName: "Darnell Woods"})
	require.NoError(t, err)
	require.Len(t, analysis.CrossReferences, 1)
	require.Equal(t, "42 Megehee Ct", analysis.Locations[0].Address)
	require.Equal(t, 100, analysis.Locations[0].Probability, "probability clamped to 0-100")
	require.Equal(t, 1, analysis.Locations[0].Rank)
	require.Equal(t, 2, analysis.Locations[1].Rank)
}

func TestEngine_Analyze_malformedJSONDegrades(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(fakeCompleter{response: "not json at all"})

	analysis, err := engine.Analyze(context.Background(), brain.Evidence{TargetName: "Darnell Woods"})
	require.NoError(t, err, "malformed provider JSON must not propagate")
	require.Empty(t, analysis.Locations)
	require.Empty(t, analysis.CrossReferences)
}

func TestEngine_UpdateProbabilities(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(fakeCompleter{response: `{
		"adjustments":[{"address":"42 Megehee Ct, Vicksburg MS","probability":90,"reason":"fresh sighting nearby"}]
	}`})

	locations := []brain.RankedLocation{
		{Rank: 1, Address: "Gas Station X, Hwy 61", Probability: 70},
		{Rank: 2, Address: "42 Megehee Ct, Vicksburg MS", Probability: 60},
	}

	updated, err := engine.UpdateProbabilities(context.Background(), locations, "neighbor reported lights on")
	require.NoError(t, err)

	require.Equal(t, "42 Megehee Ct, Vicksburg MS", updated[0].Address)
	require.Equal(t, 90, updated[0].Probability)
	require.Equal(t, 1, updated[0].Rank)
	require.Contains(t, updated[0].Reasoning, "fresh sighting nearby")

	// Unmatched location passes through unchanged apart from its rank.
	require.Equal(t, "Gas Station X, Hwy 61", updated[1].Address)
	require.Equal(t, 70, updated[1].Probability)
	require.Equal(t, 2, updated[1].Rank)
}

func TestEngine_UpdateProbabilities_emptyListIsNoop(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(fakeCompleter{response: `irrelevant`})

	updated, err := engine.UpdateProbabilities(context.Background(), nil, "whatever")
	require.NoError(t, err)
	require.Empty(t, updated)
}

func TestBuildEvidenceSummary_separatesProvenance(t *testing.T) {
	t.Parallel()

	summary := brain.BuildEvidenceSummary(brain.Evidence{
		TargetName: "Darnell Woods",
		Extracted: extract.Data{
			Addresses: []extract.Address{{Address: "42 Megehee Ct", Label: "family", Source: "bond.pdf"}},
		},
		VisualAnalyses: []extract.VisualAnalysis{
			{Source: "porch.jpg", Summary: "subject on a porch", Observations: []string{"house number 42 visible"}},
		},
		WebFindings: []brain.WebFinding{
			{Source: "sherlock", Summary: "instagram profile found", URL: "https://instagram.com/dwoods601"},
		},
	})

	require.Contains(t, summary, "TARGET: Darnell Woods")

	docIdx := strings.Index(summary, "== DOCUMENT EXTRACTION ==")
	photoIdx := strings.Index(summary, "== PHOTO ANALYSIS ==")
	webIdx := strings.Index(summary, "== WEB FINDINGS ==")
	require.True(t, docIdx >= 0 && photoIdx > docIdx && webIdx > photoIdx,
		"summary must separate evidence by provenance")

	require.Contains(t, summary, "42 Megehee Ct")
	require.Contains(t, summary, "porch.jpg")
	require.Contains(t, summary, "https://instagram.com/dwoods601")
}
