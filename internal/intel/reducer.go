package intel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fieldworks/skiptrace/internal/command"
)

// Apply folds one command into the aggregate and returns the new state plus a
// human-readable description for chat confirmation echoes.
//
// Apply is a pure function: it never mutates state in place, performs no I/O,
// and reports validation rejections and zero-match removals as descriptive
// no-ops instead of errors.
func Apply(state CaseIntel, action command.Action, source Source) (CaseIntel, string) {
	switch a := action.(type) {
	case command.AddAddress:
		return applyAddAddress(state, a, source)
	case command.RemoveAddress:
		return applyRemoveAddress(state, a)
	case command.MarkImportant:
		return applyMarkImportant(state, a)
	case command.AddContact:
		return applyAddContact(state, a, source)
	case command.RemoveContact:
		return applyRemoveContact(state, a)
	case command.AddVehicle:
		return applyAddVehicle(state, a, source)
	case command.AddNote:
		return applyAddNote(state, a, source)
	case command.AddFlag:
		return applyAddFlag(state, a)
	case command.ExcludePattern:
		return applyExcludePattern(state, a)
	case command.ClearExclusions:
		state.ExcludePatterns = []string{}
		return state, "Cleared all exclusion patterns"
	case command.SetPosterField:
		return applySetPosterField(state, a)
	}
	return state, fmt.Sprintf("Unsupported action %q skipped", action.Kind())
}

func applyAddAddress(state CaseIntel, a command.AddAddress, source Source) (CaseIntel, string) {
	address := strings.TrimSpace(a.Address)
	if address == "" {
		return state, "Skipped address with empty text"
	}
	normalized := NormalizeAddress(address)
	for _, existing := range state.Addresses {
		if addressesMatch(normalized, NormalizeAddress(existing.Address)) {
			return state, fmt.Sprintf("Address already tracked: %s", existing.Address)
		}
	}
	addressType := AddressType(a.Type)
	switch addressType {
	case AddressAnchor, AddressWork, AddressFamily, AddressAssociate, AddressTransient, AddressOther:
	default:
		addressType = AddressOther
	}
	state.Addresses = append(copyOf(state.Addresses), Address{
		ID:        nextID("addr"),
		Address:   address,
		Type:      addressType,
		Important: a.Important,
		Note:      a.Note,
		AddedAt:   nowISO(),
		Source:    source,
	})
	return state, fmt.Sprintf("Added address: %s", address)
}

func applyRemoveAddress(state CaseIntel, a command.RemoveAddress) (CaseIntel, string) {
	pattern := strings.ToLower(strings.TrimSpace(a.Pattern))
	if pattern == "" {
		return state, "Skipped address removal with empty pattern"
	}
	kept := make([]Address, 0, len(state.Addresses))
	for _, addr := range state.Addresses {
		if !strings.Contains(strings.ToLower(addr.Address), pattern) {
			kept = append(kept, addr)
		}
	}
	removed := len(state.Addresses) - len(kept)
	if removed == 0 {
		// Distinct from success so callers can surface "nothing matched".
		return state, fmt.Sprintf("No addresses matched %q", a.Pattern)
	}
	state.Addresses = kept
	return state, fmt.Sprintf("Removed %d address(es) matching %q", removed, a.Pattern)
}

// applyMarkImportant sets important on every matched address. Marking is
// one-way, not a toggle: re-marking an already-important address is a no-op,
// and nothing ever un-marks one.
func applyMarkImportant(state CaseIntel, a command.MarkImportant) (CaseIntel, string) {
	pattern := strings.ToLower(strings.TrimSpace(a.Pattern))
	if pattern == "" {
		return state, "Skipped importance marking with empty pattern"
	}
	marked := 0
	addresses := copyOf(state.Addresses)
	for i, addr := range addresses {
		if strings.Contains(strings.ToLower(addr.Address), pattern) {
			addresses[i].Important = true
			marked++
		}
	}
	if marked == 0 {
		return state, fmt.Sprintf("No addresses matched %q", a.Pattern)
	}
	state.Addresses = addresses
	return state, fmt.Sprintf("Marked %d address(es) matching %q as important", marked, a.Pattern)
}

func applyAddContact(state CaseIntel, a command.AddContact, source Source) (CaseIntel, string) {
	name := strings.TrimSpace(a.Name)
	if !IsValidContactName(name) {
		// Upstream extraction is noisy; implausible names are skipped, not errors.
		return state, fmt.Sprintf("Skipped implausible contact name: %q", a.Name)
	}
	for _, existing := range state.Contacts {
		if strings.EqualFold(existing.Name, name) {
			return state, fmt.Sprintf("Contact already tracked: %s", existing.Name)
		}
	}
	state.Contacts = append(copyOf(state.Contacts), Contact{
		ID:           nextID("contact"),
		Name:         name,
		Relationship: a.Relationship,
		Phone:        a.Phone,
		Address:      a.Address,
		Note:         a.Note,
		Important:    a.Important,
		AddedAt:      nowISO(),
		Source:       source,
	})
	return state, fmt.Sprintf("Added contact: %s", name)
}

func applyRemoveContact(state CaseIntel, a command.RemoveContact) (CaseIntel, string) {
	pattern := strings.ToLower(strings.TrimSpace(a.Name))
	if pattern == "" {
		return state, "Skipped contact removal with empty name"
	}
	kept := make([]Contact, 0, len(state.Contacts))
	for _, contact := range state.Contacts {
		if !strings.Contains(strings.ToLower(contact.Name), pattern) {
			kept = append(kept, contact)
		}
	}
	removed := len(state.Contacts) - len(kept)
	if removed == 0 {
		return state, fmt.Sprintf("No contacts matched %q", a.Name)
	}
	state.Contacts = kept
	return state, fmt.Sprintf("Removed %d contact(s) matching %q", removed, a.Name)
}

func applyAddVehicle(state CaseIntel, a command.AddVehicle, source Source) (CaseIntel, string) {
	description := strings.TrimSpace(a.Description)
	if description == "" {
		return state, "Skipped vehicle with empty description"
	}
	state.Vehicles = append(copyOf(state.Vehicles), Vehicle{
		ID:          nextID("vehicle"),
		Description: description,
		Plate:       a.Plate,
		VIN:         a.VIN,
		Note:        a.Note,
		AddedAt:     nowISO(),
		Source:      source,
	})
	return state, fmt.Sprintf("Added vehicle: %s", description)
}

func applyAddNote(state CaseIntel, a command.AddNote, source Source) (CaseIntel, string) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return state, "Skipped empty note"
	}
	// Notes never dedup: the same observation from two sources is two facts.
	state.Notes = append(copyOf(state.Notes), Note{
		ID:      nextID("note"),
		Text:    text,
		AddedAt: nowISO(),
		Source:  source,
	})
	return state, fmt.Sprintf("Added note: %s", text)
}

func applyAddFlag(state CaseIntel, a command.AddFlag) (CaseIntel, string) {
	flag := strings.TrimSpace(a.Flag)
	if flag == "" {
		return state, "Skipped empty flag"
	}
	for _, existing := range state.CustomFlags {
		if existing == flag {
			return state, fmt.Sprintf("Flag already set: %s", flag)
		}
	}
	state.CustomFlags = append(copyOf(state.CustomFlags), flag)
	return state, fmt.Sprintf("Added flag: %s", flag)
}

func applyExcludePattern(state CaseIntel, a command.ExcludePattern) (CaseIntel, string) {
	pattern := strings.ToLower(strings.TrimSpace(a.Pattern))
	if pattern == "" {
		return state, "Skipped empty exclusion pattern"
	}
	for _, existing := range state.ExcludePatterns {
		if existing == pattern {
			return state, fmt.Sprintf("Exclusion already present: %s", pattern)
		}
	}
	state.ExcludePatterns = append(copyOf(state.ExcludePatterns), pattern)
	return state, fmt.Sprintf("Excluding addresses matching: %s", pattern)
}

func applySetPosterField(state CaseIntel, a command.SetPosterField) (CaseIntel, string) {
	overrides := PosterOverrides{}
	if state.PosterOverrides != nil {
		overrides = *state.PosterOverrides
	}
	var field string
	switch a.Kind() {
	case command.KindSetPosterDescription:
		overrides.Description = a.Value
		field = "description"
	case command.KindSetPosterLastSeen:
		overrides.LastSeen = a.Value
		field = "last seen"
	case command.KindSetPosterAdditionalInfo:
		overrides.AdditionalInfo = a.Value
		field = "additional info"
	default:
		return state, fmt.Sprintf("Unsupported poster field %q skipped", a.Kind())
	}
	state.PosterOverrides = &overrides
	return state, fmt.Sprintf("Updated poster %s", field)
}

var (
	unitPattern       = regexp.MustCompile(`\b(apartment|apt|unit|suite|ste)\b|#`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeAddress canonicalizes an address for dedup comparison: case-fold,
// strip periods and commas, collapse apt/unit/suite/# variants, collapse
// whitespace.
func NormalizeAddress(address string) string {
	normalized := strings.ToLower(address)
	normalized = strings.ReplaceAll(normalized, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", " ")
	normalized = unitPattern.ReplaceAllString(normalized, "apt")
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// addressDedupPrefixLen is the prefix-containment threshold for treating two
// normalized addresses as the same. This is a loose heuristic carried over
// from field use: it can under- and over-merge on short or generic addresses.
const addressDedupPrefixLen = 25

func addressesMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) >= addressDedupPrefixLen && strings.HasPrefix(b, a[:addressDedupPrefixLen]) {
		return true
	}
	if len(b) >= addressDedupPrefixLen && strings.HasPrefix(a, b[:addressDedupPrefixLen]) {
		return true
	}
	return false
}

// copyOf shields callers of Apply from structural sharing on append.
func copyOf[T any](items []T) []T {
	copied := make([]T, len(items))
	copy(copied, items)
	return copied
}
