// Package brain cross-references all evidence for a case and maintains the
// probability-ranked list of candidate locations. The actual scoring is
// delegated to the reasoning provider; this package enforces the caller-side
// contract around it: provenance-separated input, rank as a derived view, and
// graceful degradation on malformed provider output.
package brain

import (
	"sort"
)

// CrossReferenceType classifies a claim connecting two or more pieces of
// evidence.
type CrossReferenceType string

const (
	CrossRefAddressMatch     CrossReferenceType = "address_match"
	CrossRefPhoneMatch       CrossReferenceType = "phone_match"
	CrossRefPersonConnection CrossReferenceType = "person_connection"
	CrossRefVehicleSighting  CrossReferenceType = "vehicle_sighting"
	CrossRefPattern          CrossReferenceType = "pattern"
	CrossRefTimeline         CrossReferenceType = "timeline"
)

type CrossReference struct {
	Type        CrossReferenceType `json:"type"`
	Description string             `json:"description"`
	Confidence  int                `json:"confidence"`
	Evidence    []string           `json:"evidence"`
	Sources     []string           `json:"sources"`
	Implication string             `json:"implication"`
}

// LocationType classifies a candidate location.
type LocationType string

const (
	LocationTargetResidence  LocationType = "target_residence"
	LocationWork             LocationType = "work"
	LocationFamily           LocationType = "family"
	LocationAssociate        LocationType = "associate"
	LocationFrequentLocation LocationType = "frequent_location"
)

// RankedLocation is a candidate physical location with an opaque probability
// score assigned by the reasoning provider.
type RankedLocation struct {
	Rank           int          `json:"rank"`
	Address        string       `json:"address"`
	Probability    int          `json:"probability"`
	Type           LocationType `json:"type"`
	Reasoning      []string     `json:"reasoning"`
	Sources        []string     `json:"sources"`
	BestTime       string       `json:"bestTime,omitempty"`
	WhoMightBeHere string       `json:"whoMightBeThere,omitempty"`
	Risks          string       `json:"risks,omitempty"`
	LastVerified   string       `json:"lastVerified,omitempty"`
}

// Analysis is one full output of the cross-reference engine.
type Analysis struct {
	CrossReferences []CrossReference `json:"crossReferences"`
	Locations       []RankedLocation `json:"locations"`
	ActionPlan      []string         `json:"actionPlan"`
	OpenQuestions   []string         `json:"openQuestions"`
}

// Rerank returns the locations sorted descending by probability with rank
// renumbered 1..N. Rank is a derived view, never independently settable.
func Rerank(locations []RankedLocation) []RankedLocation {
	reranked := make([]RankedLocation, len(locations))
	copy(reranked, locations)
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Probability > reranked[j].Probability
	})
	for i := range reranked {
		reranked[i].Rank = i + 1
	}
	return reranked
}

// MeanConfidence is the arithmetic mean of all ranked-location probabilities,
// 0 when the list is empty.
func MeanConfidence(locations []RankedLocation) int {
	if len(locations) == 0 {
		return 0
	}
	total := 0
	for _, location := range locations {
		total += location.Probability
	}
	return total / len(locations)
}
