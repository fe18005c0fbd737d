package intel

import (
	"regexp"
	"strings"
)

// nameDenylist holds exact (case-folded) matches that show up as "names" when
// document extraction misreads table headers, role labels, and boilerplate.
var nameDenylist = map[string]struct{}{
	"reference code": {},
	"as surety":      {},
	"bail bonds":     {},
	"county":         {},
	"name":           {},
	"address":        {},
	"phone":          {},
	"signature":      {},
	"date":           {},
	"relationship":   {},
	"employer":       {},
	"reference":      {},
	"references":     {},
	"defendant":      {},
	"indemnitor":     {},
	"co-signer":      {},
	"cosigner":       {},
	"mother":         {},
	"father":         {},
	"brother":        {},
	"sister":         {},
	"cousin":         {},
	"aunt":           {},
	"uncle":          {},
	"grandmother":    {},
	"grandfather":    {},
	"spouse":         {},
	"wife":           {},
	"husband":        {},
	"friend":         {},
	"relative":       {},
	"other":          {},
}

// businessKeywordPattern matches institution and business terms inside a
// candidate name. Word-bounded so "Lincoln" survives "inc".
var businessKeywordPattern = regexp.MustCompile(
	`\b(llc|inc|corp|corporation|company|bonds?|bonding|surety|insurance|bank|court|county|state|department|dept|agency|services|enterprises|associates|university|college|hospital|church)\b`)

var (
	asRolePattern      = regexp.MustCompile(`^as\s+\w+`)
	leadingWordPattern = regexp.MustCompile(
		`^(the|a|an|circle|check|print|sign|list|provide|enter|complete|attach|see)\s`)
	templatePattern = regexp.MustCompile(`circle one|if yes|if no|yes/no|\bn/a\b`)
	numericPattern  = regexp.MustCompile(`^[\d\s\-()+.]+$`)
	vowelPattern    = regexp.MustCompile(`[aeiouy]`)
	letterPattern   = regexp.MustCompile(`[a-z]`)
)

// IsValidContactName reports whether a candidate contact name is structurally
// plausible as a person name.
//
// Upstream document extraction frequently misattributes headers, role labels,
// and form boilerplate as names. This check is the last line of defense before
// that noise becomes a persisted, report-visible contact.
func IsValidContactName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 3 || len(name) > 60 {
		return false
	}

	lower := strings.ToLower(name)

	if _, denied := nameDenylist[lower]; denied {
		return false
	}
	if businessKeywordPattern.MatchString(lower) {
		return false
	}
	if asRolePattern.MatchString(lower) {
		return false
	}
	if leadingWordPattern.MatchString(lower) {
		return false
	}
	if templatePattern.MatchString(lower) {
		return false
	}
	// A slash is a template-choice artifact ("Son/Daughter").
	if strings.Contains(name, "/") {
		return false
	}
	if numericPattern.MatchString(name) {
		return false
	}
	if !vowelPattern.MatchString(lower) {
		return false
	}
	if !strings.Contains(name, " ") {
		// A single all-caps word is a header, not a name.
		if name == strings.ToUpper(name) && letterPattern.MatchString(lower) {
			return false
		}
		// A single all-lowercase word is not capitalized as a name would be.
		if name == strings.ToLower(name) {
			return false
		}
	}
	return true
}
