package envstruct_test

import (
	"testing"

	"github.com/fieldworks/skiptrace/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func lookupFromMap(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		val, ok := env[key]
		return val, ok
	}
}

func TestPopulate(t *testing.T) {
	type config struct {
		Addr        string `env:"SKIPTRACE_ADDR" envDefault:"localhost:4000"`
		OpenAIKey   string `env:"OPENAI_API_KEY"`
		OSINTURL    string `env:"OSINT_BACKEND_URL" envDefault:"http://localhost:8000"`
		RateLimit   int    `env:"OSINT_RATE_LIMIT" envDefault:"2"`
		EnablePprof bool   `env:"ENABLE_PPROF" envDefault:"false"`
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    config
		wantErr error
	}{
		{
			name: "all variables set",
			env: map[string]string{
				"SKIPTRACE_ADDR":    "localhost:5000",
				"OPENAI_API_KEY":    "sk-test",
				"OSINT_BACKEND_URL": "http://osint:8000",
				"OSINT_RATE_LIMIT":  "5",
				"ENABLE_PPROF":      "true",
			},
			want: config{
				Addr:        "localhost:5000",
				OpenAIKey:   "sk-test",
				OSINTURL:    "http://osint:8000",
				RateLimit:   5,
				EnablePprof: true,
			},
		},
		{
			name: "defaults apply",
			env:  map[string]string{"OPENAI_API_KEY": "sk-test"},
			want: config{
				Addr:        "localhost:4000",
				OpenAIKey:   "sk-test",
				OSINTURL:    "http://localhost:8000",
				RateLimit:   2,
				EnablePprof: false,
			},
		},
		{
			name:    "missing required variable",
			env:     map[string]string{},
			wantErr: envstruct.ErrEnvNotSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got config
			err := envstruct.Populate(&got, lookupFromMap(tt.env))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPopulate_invalidValues(t *testing.T) {
	t.Run("not a pointer", func(t *testing.T) {
		type config struct {
			Addr string `env:"ADDR" envDefault:"localhost"`
		}
		err := envstruct.Populate(config{}, lookupFromMap(nil))
		require.ErrorIs(t, err, envstruct.ErrInvalidValue)
	})

	t.Run("unparseable int", func(t *testing.T) {
		type config struct {
			Limit int `env:"LIMIT"`
		}
		var got config
		err := envstruct.Populate(&got, lookupFromMap(map[string]string{"LIMIT": "two"}))
		require.Error(t, err)
	})

	t.Run("unsupported field type", func(t *testing.T) {
		type config struct {
			Limit float64 `env:"LIMIT"`
		}
		var got config
		err := envstruct.Populate(&got, lookupFromMap(map[string]string{"LIMIT": "2.0"}))
		require.ErrorIs(t, err, envstruct.ErrInvalidValue)
	})
}
