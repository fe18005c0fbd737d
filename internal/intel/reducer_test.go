package intel_test

import (
	"testing"

	"github.com/fieldworks/skiptrace/internal/command"
	"github.com/fieldworks/skiptrace/internal/intel"
	"github.com/stretchr/testify/require"
)

func TestApply_addAddressDedupNormalization(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, desc := intel.Apply(state, command.AddAddress{Address: "123 Main St Apt 4", Type: "anchor", Important: true}, intel.SourceUser)
	require.Equal(t, "Added address: 123 Main St Apt 4", desc)
	require.Len(t, state.Addresses, 1)

	// Formatting drift between sources must not create a second entry.
	next, desc := intel.Apply(state, command.AddAddress{Address: "123 main st, apt. 4", Important: true}, intel.SourceAI)
	require.Contains(t, desc, "already tracked")
	require.Len(t, next.Addresses, 1)
	require.Equal(t, state.Addresses, next.Addresses)
}

func TestApply_addAddressPrefixContainment(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, _ = intel.Apply(state, command.AddAddress{
		Address:   "4217 Old River Road North, Vicksburg MS",
		Important: true,
	}, intel.SourceDocument)

	// A longer rendering sharing the 25-character normalized prefix is the same place.
	next, desc := intel.Apply(state, command.AddAddress{
		Address:   "4217 Old River Road North, Vicksburg MS 39180",
		Important: true,
	}, intel.SourceAI)
	require.Contains(t, desc, "already tracked")
	require.Len(t, next.Addresses, 1)

	// Short addresses only dedup on exact normalized match.
	next, _ = intel.Apply(next, command.AddAddress{Address: "42 Oak St", Important: true}, intel.SourceAI)
	next, desc = intel.Apply(next, command.AddAddress{Address: "42 Oak Street", Important: true}, intel.SourceAI)
	require.Contains(t, desc, "Added address")
	require.Len(t, next.Addresses, 3)
}

func TestApply_doesNotMutateInput(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, _ = intel.Apply(state, command.AddAddress{Address: "99 Bottom Rd", Important: false}, intel.SourceUser)
	state, _ = intel.Apply(state, command.AddContact{Name: "Marcus Reed", Relationship: "associate"}, intel.SourceUser)

	before := state.Addresses[0]

	next, _ := intel.Apply(state, command.MarkImportant{Pattern: "bottom"}, intel.SourceUser)
	require.True(t, next.Addresses[0].Important)
	require.False(t, state.Addresses[0].Important, "input state must not be mutated")
	require.Equal(t, before, state.Addresses[0])

	next2, _ := intel.Apply(next, command.RemoveContact{Name: "reed"}, intel.SourceUser)
	require.Empty(t, next2.Contacts)
	require.Len(t, next.Contacts, 1, "input state must not be mutated")
}

func TestApply_removeAddressReportsZeroMatches(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, _ = intel.Apply(state, command.AddAddress{Address: "12 Pine Hollow", Important: true}, intel.SourceUser)

	next, desc := intel.Apply(state, command.RemoveAddress{Pattern: "nonexistent"}, intel.SourceUser)
	require.Equal(t, `No addresses matched "nonexistent"`, desc)
	require.Equal(t, state.Addresses, next.Addresses)

	next, desc = intel.Apply(next, command.RemoveAddress{Pattern: "pine"}, intel.SourceUser)
	require.Equal(t, `Removed 1 address(es) matching "pine"`, desc)
	require.Empty(t, next.Addresses)
}

func TestApply_contactValidationAndDedup(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()

	state, desc := intel.Apply(state, command.AddContact{Name: "As Surety"}, intel.SourceDocument)
	require.Contains(t, desc, "Skipped implausible contact name")
	require.Empty(t, state.Contacts)

	state, _ = intel.Apply(state, command.AddContact{Name: "Shecondra Williams", Relationship: "cousin"}, intel.SourceDocument)
	require.Len(t, state.Contacts, 1)

	state, desc = intel.Apply(state, command.AddContact{Name: "SHECONDRA WILLIAMS"}, intel.SourceAI)
	require.Contains(t, desc, "already tracked")
	require.Len(t, state.Contacts, 1)
}

func TestApply_notesNeverDedupFlagsDo(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, _ = intel.Apply(state, command.AddNote{Text: "seen at the casino"}, intel.SourceUser)
	state, _ = intel.Apply(state, command.AddNote{Text: "seen at the casino"}, intel.SourceAI)
	require.Len(t, state.Notes, 2, "the same observation from two sources is two facts")

	state, _ = intel.Apply(state, command.AddFlag{Flag: "armed"}, intel.SourceUser)
	state, desc := intel.Apply(state, command.AddFlag{Flag: "armed"}, intel.SourceUser)
	require.Contains(t, desc, "already set")
	require.Len(t, state.CustomFlags, 1)
}

func TestApply_exclusions(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, _ = intel.Apply(state, command.AddAddress{Address: "PO Box 771, Jackson MS", Important: false}, intel.SourceDocument)
	state, _ = intel.Apply(state, command.AddAddress{Address: "88 Levee Rd", Important: true}, intel.SourceUser)
	state, _ = intel.Apply(state, command.ExcludePattern{Pattern: "PO Box"}, intel.SourceUser)

	require.Equal(t, []string{"po box"}, state.ExcludePatterns)

	visible := intel.ReportAddresses(state)
	require.Len(t, visible, 1)
	require.Equal(t, "88 Levee Rd", visible[0].Address)

	state, _ = intel.Apply(state, command.ClearExclusions{}, intel.SourceUser)
	require.Empty(t, state.ExcludePatterns)
	require.Len(t, intel.ReportAddresses(state), 2)
}

func TestApply_posterOverridesShallowMerge(t *testing.T) {
	t.Parallel()

	state := intel.NewCaseIntel()
	state, _ = intel.Apply(state, command.NewSetPosterField(command.KindSetPosterDescription, "6'1, tattoo on neck"), intel.SourceUser)
	state, _ = intel.Apply(state, command.NewSetPosterField(command.KindSetPosterLastSeen, "Biloxi"), intel.SourceAI)

	require.NotNil(t, state.PosterOverrides)
	require.Equal(t, "6'1, tattoo on neck", state.PosterOverrides.Description)
	require.Equal(t, "Biloxi", state.PosterOverrides.LastSeen)
}
