// Package intel holds the curated case intelligence for one investigation:
// the investigator- and AI-confirmed facts that survive across sessions,
// distinct from raw extracted data.
package intel

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Source records who surfaced a fact.
type Source string

const (
	SourceAI       Source = "ai"
	SourceUser     Source = "user"
	SourceDocument Source = "document"
)

// AddressType classifies a curated address.
type AddressType string

const (
	AddressAnchor    AddressType = "anchor"
	AddressWork      AddressType = "work"
	AddressFamily    AddressType = "family"
	AddressAssociate AddressType = "associate"
	AddressTransient AddressType = "transient"
	AddressOther     AddressType = "other"
)

type Address struct {
	ID        string      `json:"id"`
	Address   string      `json:"address"`
	Type      AddressType `json:"type"`
	Important bool        `json:"important"`
	Note      string      `json:"note,omitempty"`
	AddedAt   string      `json:"addedAt"`
	Source    Source      `json:"source"`
}

type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Note         string `json:"note,omitempty"`
	Important    bool   `json:"important"`
	AddedAt      string `json:"addedAt"`
	Source       Source `json:"source"`
}

type Vehicle struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Plate       string `json:"plate,omitempty"`
	VIN         string `json:"vin,omitempty"`
	Note        string `json:"note,omitempty"`
	AddedAt     string `json:"addedAt"`
	Source      Source `json:"source"`
}

type Note struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	AddedAt string `json:"addedAt"`
	Source  Source `json:"source"`
}

// PosterOverrides are operator-supplied fields that replace the generated
// wanted-poster content.
type PosterOverrides struct {
	Description    string `json:"description,omitempty"`
	LastSeen       string `json:"lastSeen,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	ContactName    string `json:"contactName,omitempty"`
	ContactPhone   string `json:"contactPhone,omitempty"`
	Charges        string `json:"charges,omitempty"`
}

// CaseIntel is the persisted aggregate of curated facts for one case.
//
// Collections are append/filter only through the reducer. Callers must not
// mutate the slices directly.
type CaseIntel struct {
	Addresses       []Address        `json:"addresses"`
	Contacts        []Contact        `json:"contacts"`
	Vehicles        []Vehicle        `json:"vehicles"`
	Notes           []Note           `json:"notes"`
	ExcludePatterns []string         `json:"excludePatterns"`
	CustomFlags     []string         `json:"customFlags"`
	PosterOverrides *PosterOverrides `json:"posterOverrides,omitempty"`
	UpdatedAt       string           `json:"updatedAt"`
}

// NewCaseIntel returns an empty aggregate ready for the reducer.
func NewCaseIntel() CaseIntel {
	return CaseIntel{
		Addresses:       []Address{},
		Contacts:        []Contact{},
		Vehicles:        []Vehicle{},
		Notes:           []Note{},
		ExcludePatterns: []string{},
		CustomFlags:     []string{},
		PosterOverrides: nil,
		UpdatedAt:       "",
	}
}

// idCounter backs nextID. IDs are process-unique, monotonically increasing,
// and never reused.
var idCounter atomic.Uint64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// timeNow is swapped in tests for deterministic timestamps.
var timeNow = time.Now

func nowISO() string {
	return timeNow().UTC().Format(time.RFC3339)
}
