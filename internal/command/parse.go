package command

import (
	"encoding/json"
	"regexp"
	"strings"
)

// markerPattern matches one embedded command marker. The payload is matched
// lazily so multiple markers in the same text parse independently.
var markerPattern = regexp.MustCompile(`(?s)\[ACTION:([A-Z_]+)\](.*?)\[/ACTION\]`)

// Parse extracts all command markers from text. It returns the clean text
// with every marker stripped and whitespace trimmed, and the typed commands
// in the order they appear in the source.
//
// Parse never fails: a malformed JSON payload degrades to a raw-string
// payload filling the command's primary field, and unknown tags are stripped
// but otherwise ignored for forward compatibility.
func Parse(text string) (string, []Action) {
	var actions []Action

	matches := markerPattern.FindAllStringSubmatch(text, -1)
	for _, match := range matches {
		kind := Kind(match[1])
		payload := strings.TrimSpace(match[2])
		if action, ok := parseAction(kind, payload); ok {
			actions = append(actions, action)
		}
	}

	clean := markerPattern.ReplaceAllString(text, "")
	clean = collapseBlankLines(clean)
	return strings.TrimSpace(clean), actions
}

// parseAction builds the typed command for one marker. The payload is
// attempted as JSON first; on failure the raw payload string fills the
// command's single required field.
func parseAction(kind Kind, payload string) (Action, bool) {
	switch kind {
	case KindAddAddress:
		var p struct {
			Address   string `json:"address"`
			Type      string `json:"type"`
			Important *bool  `json:"important"`
			Note      string `json:"note"`
		}
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return AddAddress{Address: payload, Type: "other", Important: true}, true
		}
		// An address surfaced deliberately defaults to important.
		important := true
		if p.Important != nil {
			important = *p.Important
		}
		if p.Type == "" {
			p.Type = "other"
		}
		return AddAddress{Address: p.Address, Type: p.Type, Important: important, Note: p.Note}, true

	case KindRemoveAddress:
		return RemoveAddress{Pattern: stringField(payload, "pattern", "address")}, true

	case KindMarkImportant:
		return MarkImportant{Pattern: stringField(payload, "pattern", "address")}, true

	case KindAddContact:
		var p struct {
			Name         string `json:"name"`
			Relationship string `json:"relationship"`
			Phone        string `json:"phone"`
			Address      string `json:"address"`
			Note         string `json:"note"`
			Important    bool   `json:"important"`
		}
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return AddContact{Name: payload}, true
		}
		return AddContact{
			Name:         p.Name,
			Relationship: p.Relationship,
			Phone:        p.Phone,
			Address:      p.Address,
			Note:         p.Note,
			Important:    p.Important,
		}, true

	case KindRemoveContact:
		return RemoveContact{Name: stringField(payload, "name")}, true

	case KindAddVehicle:
		var p struct {
			Description string `json:"description"`
			Plate       string `json:"plate"`
			VIN         string `json:"vin"`
			Note        string `json:"note"`
		}
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return AddVehicle{Description: payload}, true
		}
		return AddVehicle{Description: p.Description, Plate: p.Plate, VIN: p.VIN, Note: p.Note}, true

	case KindAddNote:
		return AddNote{Text: stringField(payload, "text")}, true

	case KindAddFlag:
		return AddFlag{Flag: stringField(payload, "flag", "text")}, true

	case KindExcludePattern:
		return ExcludePattern{Pattern: stringField(payload, "pattern")}, true

	case KindClearExclusions:
		return ClearExclusions{}, true

	case KindSetPosterDescription, KindSetPosterLastSeen, KindSetPosterAdditionalInfo:
		return NewSetPosterField(kind, stringField(payload, "value", "text")), true
	}

	// Unknown tags are silently ignored.
	return nil, false
}

// stringField decodes a JSON payload and returns the first non-empty field
// among keys. A payload that is not valid JSON is returned as-is.
func stringField(payload string, keys ...string) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return payload
	}
	for _, key := range keys {
		if value, ok := fields[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// collapseBlankLines squashes runs of blank lines left behind by stripped
// markers so the clean text reads naturally.
func collapseBlankLines(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text
}
