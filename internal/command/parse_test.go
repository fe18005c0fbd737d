package command_test

import (
	"testing"

	"github.com/fieldworks/skiptrace/internal/command"
	"github.com/stretchr/testify/require"
)

func TestParse_roundTrip(t *testing.T) {
	t.Parallel()

	clean, actions := command.Parse(`Done. [ACTION:ADD_NOTE]{"text":"X"}[/ACTION]`)

	require.Equal(t, "Done.", clean)
	require.Len(t, actions, 1)
	require.Equal(t, command.AddNote{Text: "X"}, actions[0])
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantClean   string
		wantActions []command.Action
	}{
		{
			name:        "no markers",
			text:        "Just a plain reply.",
			wantClean:   "Just a plain reply.",
			wantActions: nil,
		},
		{
			name: "address with defaults",
			text: `Noted. [ACTION:ADD_ADDRESS]{"address":"42 Megehee Ct","type":"family"}[/ACTION]`,
			wantClean: "Noted.",
			wantActions: []command.Action{
				command.AddAddress{Address: "42 Megehee Ct", Type: "family", Important: true},
			},
		},
		{
			name: "address with explicit important false",
			text: `[ACTION:ADD_ADDRESS]{"address":"1 Side St","important":false}[/ACTION]`,
			wantActions: []command.Action{
				command.AddAddress{Address: "1 Side St", Type: "other", Important: false},
			},
		},
		{
			name:      "malformed payload degrades to raw string",
			text:      `[ACTION:ADD_NOTE]subject seen near the river[/ACTION] Keep watching.`,
			wantClean: "Keep watching.",
			wantActions: []command.Action{
				command.AddNote{Text: "subject seen near the river"},
			},
		},
		{
			name: "multiple markers preserve source order",
			text: `First things first.
[ACTION:ADD_CONTACT]{"name":"Shecondra Williams","relationship":"cousin"}[/ACTION]
[ACTION:EXCLUDE_PATTERN]{"pattern":"po box"}[/ACTION]
[ACTION:REMOVE_ADDRESS]{"pattern":"Main St"}[/ACTION]
Done.`,
			wantClean: "First things first.\n\nDone.",
			wantActions: []command.Action{
				command.AddContact{Name: "Shecondra Williams", Relationship: "cousin"},
				command.ExcludePattern{Pattern: "po box"},
				command.RemoveAddress{Pattern: "Main St"},
			},
		},
		{
			name:        "unknown tag is stripped and ignored",
			text:        `Okay. [ACTION:LAUNCH_DRONE]{"target":"anywhere"}[/ACTION]`,
			wantClean:   "Okay.",
			wantActions: nil,
		},
		{
			name:      "poster fields",
			text:      `[ACTION:SET_POSTER_LAST_SEEN]{"value":"Biloxi, MS 2024-03-02"}[/ACTION]`,
			wantClean: "",
			wantActions: []command.Action{
				command.NewSetPosterField(command.KindSetPosterLastSeen, "Biloxi, MS 2024-03-02"),
			},
		},
		{
			name:      "clear exclusions takes no payload",
			text:      `[ACTION:CLEAR_EXCLUSIONS]{}[/ACTION]`,
			wantClean: "",
			wantActions: []command.Action{
				command.ClearExclusions{},
			},
		},
		{
			name: "vehicle",
			text: `[ACTION:ADD_VEHICLE]{"description":"white 2009 Tahoe","plate":"MS XYZ123"}[/ACTION]`,
			wantActions: []command.Action{
				command.AddVehicle{Description: "white 2009 Tahoe", Plate: "MS XYZ123"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clean, actions := command.Parse(tt.text)

			require.Equal(t, tt.wantClean, clean)
			require.Equal(t, tt.wantActions, actions)
		})
	}
}

func TestParse_surroundingTextSurvivesMalformedCommand(t *testing.T) {
	t.Parallel()

	text := `I found two things.
[ACTION:ADD_ADDRESS]{"address": broken json}[/ACTION]
The second one checks out.`

	clean, actions := command.Parse(text)

	require.Equal(t, "I found two things.\n\nThe second one checks out.", clean)
	require.Len(t, actions, 1)
	addr, ok := actions[0].(command.AddAddress)
	require.True(t, ok)
	require.True(t, addr.Important)
	require.Equal(t, `{"address": broken json}`, addr.Address)
}
