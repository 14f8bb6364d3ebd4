package launchd

import (
	"testing"

	"github.com/THPTUHA/launchcron/pkg/extcron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func explicit(raw string, values ...int) extcron.Field {
	return extcron.Field{Values: values, Raw: raw}
}

func TestClassifySeconds(t *testing.T) {
	tests := []struct {
		name           string
		sec            extcron.Field
		othersWildcard bool
		mode           secondsMode
		step           int
		err            error
		message        string
	}{
		{
			name:           "single nonzero with wildcard fields",
			sec:            explicit("1", 1),
			othersWildcard: true,
			err:            ErrSecondsField,
			message:        "must be 0",
		},
		{
			name:    "single nonzero with restricted fields",
			sec:     explicit("15", 15),
			err:     ErrSecondsField,
			message: "only valid when all other fields are wildcard",
		},
		{
			name:           "progression short of the minute",
			sec:            explicit("0-20/10", 0, 10, 20),
			othersWildcard: true,
			err:            ErrSecondsField,
			message:        "consistent interval",
		},
		{
			name:           "progression not starting at zero",
			sec:            explicit("5/20", 5, 25, 45),
			othersWildcard: true,
			err:            ErrSecondsField,
			message:        "consistent interval",
		},
		{
			name:           "irregular list",
			sec:            explicit("0,10,30,50", 0, 10, 30, 50),
			othersWildcard: true,
			err:            ErrSecondsField,
		},
		{
			name:    "interval with restricted fields",
			sec:     explicit("*/15", 0, 15, 30, 45),
			err:     ErrSecondsField,
			message: "*/15 * * * * *",
		},
		{
			name:           "interval",
			sec:            explicit("*/15", 0, 15, 30, 45),
			othersWildcard: true,
			mode:           secondsInterval,
			step:           15,
		},
		{
			name:           "uneven interval reaching the minute",
			sec:            explicit("*/25", 0, 25, 50),
			othersWildcard: true,
			mode:           secondsInterval,
			step:           25,
		},
		{
			name:           "degenerate step",
			sec:            explicit("*/100", 0),
			othersWildcard: true,
			err:            ErrDegenerateInterval,
			message:        "*/100",
		},
		{
			name: "degenerate step with restricted fields",
			sec:  explicit("*/100", 0),
			mode: secondsIgnored,
		},
		{
			name: "defaulted zero",
			sec:  explicit("", 0),
			mode: secondsIgnored,
		},
		{
			name:           "defaulted zero every minute",
			sec:            explicit("", 0),
			othersWildcard: true,
			mode:           secondsIgnored,
		},
		{
			name:    "wildcard with restricted fields",
			sec:     extcron.Field{Wildcard: true, Raw: "*"},
			err:     ErrSecondsField,
			message: "only valid when every other field is also a wildcard",
		},
		{
			name:           "wildcard everywhere",
			sec:            extcron.Field{Wildcard: true, Raw: "*"},
			othersWildcard: true,
			mode:           secondsEveryTick,
		},
		{
			name: "empty explicit field",
			sec:  extcron.Field{Raw: "?"},
			err:  ErrInvariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, step, err := classifySeconds(tt.sec, tt.othersWildcard)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				if tt.message != "" {
					assert.Contains(t, err.Error(), tt.message)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, mode)
			assert.Equal(t, tt.step, step)
		})
	}
}

func TestSecondsStepProgressions(t *testing.T) {
	for d := 1; d < 60; d++ {
		var values []int
		for v := 0; v < 60; v += d {
			values = append(values, v)
		}
		step, ok := secondsStep(values)
		assert.True(t, ok, "step %d", d)
		assert.Equal(t, d, step)
	}
}
