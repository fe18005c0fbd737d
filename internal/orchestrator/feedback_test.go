package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectFeedback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text      string
		wantKind  feedbackKind
		wantPlace string
	}{
		{"Gas Station X is nogo", feedbackNoGo, "Gas Station X"},
		{"42 Megehee Ct is no good", feedbackNoGo, "42 Megehee Ct"},
		{"the trailer was a dead end", feedbackNoGo, "the trailer"},
		{"nogo on the Levee Rd house", feedbackNoGo, "the Levee Rd house"},
		{"no-go on Gas Station X.", feedbackNoGo, "Gas Station X"},
		{"the stakeout didn't work", feedbackNoGo, "the stakeout"},
		{"caught him at 42 Megehee Ct", feedbackConfirmed, "42 Megehee Ct"},
		{"we spotted the target at the casino!", feedbackConfirmed, "the casino"},
		{"subject was located at 88 Levee Rd.", feedbackConfirmed, "88 Levee Rd"},
		{"any update on the cousin?", feedbackNone, ""},
		{"add a note about the Tahoe", feedbackNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := detectFeedback(tt.text)
			require.Equal(t, tt.wantKind, got.Kind)
			require.Equal(t, tt.wantPlace, got.Place)
		})
	}
}
