// Package command defines the action protocol: a fixed vocabulary of mutation
// commands that the reasoning provider or the operator can embed in free text
// as [ACTION:TAG]{json}[/ACTION] markers.
package command

// Kind identifies one of the fixed command kinds.
type Kind string

const (
	KindAddAddress              Kind = "ADD_ADDRESS"
	KindRemoveAddress           Kind = "REMOVE_ADDRESS"
	KindMarkImportant           Kind = "MARK_IMPORTANT"
	KindAddContact              Kind = "ADD_CONTACT"
	KindRemoveContact           Kind = "REMOVE_CONTACT"
	KindAddVehicle              Kind = "ADD_VEHICLE"
	KindAddNote                 Kind = "ADD_NOTE"
	KindAddFlag                 Kind = "ADD_FLAG"
	KindExcludePattern          Kind = "EXCLUDE_PATTERN"
	KindClearExclusions         Kind = "CLEAR_EXCLUSIONS"
	KindSetPosterDescription    Kind = "SET_POSTER_DESCRIPTION"
	KindSetPosterLastSeen       Kind = "SET_POSTER_LAST_SEEN"
	KindSetPosterAdditionalInfo Kind = "SET_POSTER_ADDITIONAL_INFO"
)

// Action is one parsed command. Concrete types below carry the typed payload.
type Action interface {
	Kind() Kind
}

// AddAddress adds a curated address to the case intelligence.
//
// Important defaults to true when the payload omits it: an address surfaced
// deliberately by the investigator or the AI is worth highlighting.
type AddAddress struct {
	Address   string
	Type      string
	Important bool
	Note      string
}

func (AddAddress) Kind() Kind { return KindAddAddress }

// RemoveAddress removes all addresses whose text contains Pattern.
type RemoveAddress struct {
	Pattern string
}

func (RemoveAddress) Kind() Kind { return KindRemoveAddress }

// MarkImportant flags all addresses whose text contains Pattern as important.
type MarkImportant struct {
	Pattern string
}

func (MarkImportant) Kind() Kind { return KindMarkImportant }

// AddContact adds a known associate, relative, or other contact.
type AddContact struct {
	Name         string
	Relationship string
	Phone        string
	Address      string
	Note         string
	Important    bool
}

func (AddContact) Kind() Kind { return KindAddContact }

// RemoveContact removes all contacts whose name contains Name.
type RemoveContact struct {
	Name string
}

func (RemoveContact) Kind() Kind { return KindRemoveContact }

// AddVehicle adds a vehicle associated with the target.
type AddVehicle struct {
	Description string
	Plate       string
	VIN         string
	Note        string
}

func (AddVehicle) Kind() Kind { return KindAddVehicle }

// AddNote appends a free-form investigator note.
type AddNote struct {
	Text string
}

func (AddNote) Kind() Kind { return KindAddNote }

// AddFlag appends a custom case flag.
type AddFlag struct {
	Flag string
}

func (AddFlag) Kind() Kind { return KindAddFlag }

// ExcludePattern hides addresses containing Pattern from derived reports.
type ExcludePattern struct {
	Pattern string
}

func (ExcludePattern) Kind() Kind { return KindExcludePattern }

// ClearExclusions removes all exclusion patterns.
type ClearExclusions struct{}

func (ClearExclusions) Kind() Kind { return KindClearExclusions }

// SetPosterField overwrites one field of the wanted-poster overrides.
type SetPosterField struct {
	kind  Kind
	Value string
}

func (a SetPosterField) Kind() Kind { return a.kind }

// NewSetPosterField builds a poster-field command for one of the
// SET_POSTER_* kinds.
func NewSetPosterField(kind Kind, value string) SetPosterField {
	return SetPosterField{kind: kind, Value: value}
}
