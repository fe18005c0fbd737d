// Package extract accumulates structured data pulled out of documents and
// photos. Repeated passes over the same material fold into one running
// aggregate without duplicating or discarding earlier evidence.
package extract

import (
	"regexp"
	"strings"

	"github.com/fieldworks/skiptrace/internal/intel"
)

// Data is the per-case running aggregate of extracted records. Every record
// carries the name of the document or photo it came from.
type Data struct {
	Subjects    []Subject     `json:"subjects"`
	Addresses   []Address     `json:"addresses"`
	Phones      []Phone       `json:"phones"`
	Vehicles    []Vehicle     `json:"vehicles"`
	Relatives   []Relative    `json:"relatives"`
	Employers   []Employer    `json:"employers"`
	SocialMedia []SocialMedia `json:"socialMedia"`
}

type Subject struct {
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
	Source  string `json:"source"`
}

type Address struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
	Source  string `json:"source"`
}

type Phone struct {
	Number string `json:"number"`
	Label  string `json:"label,omitempty"`
	Source string `json:"source"`
}

type Vehicle struct {
	Description string `json:"description"`
	Plate       string `json:"plate,omitempty"`
	Source      string `json:"source"`
}

type Relative struct {
	Description string `json:"description"`
	Source      string `json:"source"`
}

type Employer struct {
	Description string `json:"description"`
	Source      string `json:"source"`
}

type SocialMedia struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"source"`
}

// NewData returns an empty aggregate.
func NewData() Data {
	return Data{
		Subjects:    []Subject{},
		Addresses:   []Address{},
		Phones:      []Phone{},
		Vehicles:    []Vehicle{},
		Relatives:   []Relative{},
		Employers:   []Employer{},
		SocialMedia: []SocialMedia{},
	}
}

var nonDigitPattern = regexp.MustCompile(`\D`)

// Dedup keys per record type. Re-ingesting the same document must not
// duplicate entries.
func subjectKey(s Subject) string   { return strings.ToLower(strings.TrimSpace(s.Name)) }
func addressKey(a Address) string   { return intel.NormalizeAddress(a.Address) }
func phoneKey(p Phone) string       { return nonDigitPattern.ReplaceAllString(p.Number, "") }
func vehicleKey(v Vehicle) string   { return strings.ToLower(strings.TrimSpace(v.Description)) }
func relativeKey(r Relative) string { return strings.ToLower(strings.TrimSpace(r.Description)) }
func employerKey(e Employer) string { return strings.ToLower(strings.TrimSpace(e.Description)) }
func socialKey(s SocialMedia) string {
	return strings.ToLower(strings.TrimSpace(s.Platform) + ":" + strings.TrimSpace(s.Username))
}

// Merge folds incoming records into the existing aggregate. All existing
// items are kept untouched; incoming items are appended only when their dedup
// key is not already present. Merging the same incoming data twice yields the
// same aggregate as merging it once.
func Merge(existing Data, incoming Data) Data {
	return Data{
		Subjects:    mergeByKey(existing.Subjects, incoming.Subjects, subjectKey),
		Addresses:   mergeByKey(existing.Addresses, incoming.Addresses, addressKey),
		Phones:      mergeByKey(existing.Phones, incoming.Phones, phoneKey),
		Vehicles:    mergeByKey(existing.Vehicles, incoming.Vehicles, vehicleKey),
		Relatives:   mergeByKey(existing.Relatives, incoming.Relatives, relativeKey),
		Employers:   mergeByKey(existing.Employers, incoming.Employers, employerKey),
		SocialMedia: mergeByKey(existing.SocialMedia, incoming.SocialMedia, socialKey),
	}
}

// mergeByKey appends incoming items whose key is absent from existing. Items
// reducing to an empty key are extraction noise and are dropped.
func mergeByKey[T any](existing []T, incoming []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[key(item)] = struct{}{}
	}

	merged := make([]T, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	for _, item := range incoming {
		k := key(item)
		if k == "" || k == ":" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, item)
	}
	return merged
}

// Counts summarizes the aggregate for task results and log lines.
func (d Data) Counts() map[string]int {
	return map[string]int{
		"subjects":    len(d.Subjects),
		"addresses":   len(d.Addresses),
		"phones":      len(d.Phones),
		"vehicles":    len(d.Vehicles),
		"relatives":   len(d.Relatives),
		"employers":   len(d.Employers),
		"socialMedia": len(d.SocialMedia),
	}
}
