package intel

import (
	"fmt"
	"strings"
)

// ReportAddresses returns the addresses visible in derived reports: any
// address containing an exclusion pattern is omitted.
func ReportAddresses(state CaseIntel) []Address {
	visible := make([]Address, 0, len(state.Addresses))
	for _, addr := range state.Addresses {
		if excluded(addr.Address, state.ExcludePatterns) {
			continue
		}
		visible = append(visible, addr)
	}
	return visible
}

func excluded(address string, patterns []string) bool {
	lower := strings.ToLower(address)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// BuildReport renders the case intelligence as a plain-text report for the
// CLI and the report endpoint.
func BuildReport(targetName string, state CaseIntel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CASE REPORT: %s\n", targetName)
	fmt.Fprintf(&b, "Updated: %s\n", state.UpdatedAt)

	if overrides := state.PosterOverrides; overrides != nil {
		b.WriteString("\nPOSTER\n")
		writeField(&b, "Description", overrides.Description)
		writeField(&b, "Last seen", overrides.LastSeen)
		writeField(&b, "Additional info", overrides.AdditionalInfo)
		writeField(&b, "Contact", overrides.ContactName)
		writeField(&b, "Contact phone", overrides.ContactPhone)
		writeField(&b, "Charges", overrides.Charges)
	}

	addresses := ReportAddresses(state)
	if len(addresses) > 0 {
		b.WriteString("\nADDRESSES\n")
		for _, addr := range addresses {
			marker := " "
			if addr.Important {
				marker = "*"
			}
			fmt.Fprintf(&b, "%s %s (%s)", marker, addr.Address, addr.Type)
			if addr.Note != "" {
				fmt.Fprintf(&b, " (%s)", addr.Note)
			}
			b.WriteString("\n")
		}
	}

	if len(state.Contacts) > 0 {
		b.WriteString("\nCONTACTS\n")
		for _, contact := range state.Contacts {
			fmt.Fprintf(&b, "- %s (%s)", contact.Name, contact.Relationship)
			if contact.Phone != "" {
				fmt.Fprintf(&b, " %s", contact.Phone)
			}
			if contact.Address != "" {
				fmt.Fprintf(&b, " @ %s", contact.Address)
			}
			b.WriteString("\n")
		}
	}

	if len(state.Vehicles) > 0 {
		b.WriteString("\nVEHICLES\n")
		for _, vehicle := range state.Vehicles {
			fmt.Fprintf(&b, "- %s", vehicle.Description)
			if vehicle.Plate != "" {
				fmt.Fprintf(&b, " plate %s", vehicle.Plate)
			}
			if vehicle.VIN != "" {
				fmt.Fprintf(&b, " VIN %s", vehicle.VIN)
			}
			b.WriteString("\n")
		}
	}

	if len(state.Notes) > 0 {
		b.WriteString("\nNOTES\n")
		for _, note := range state.Notes {
			fmt.Fprintf(&b, "- %s\n", note.Text)
		}
	}

	if len(state.CustomFlags) > 0 {
		b.WriteString("\nFLAGS\n")
		for _, flag := range state.CustomFlags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", label, value)
	}
}
