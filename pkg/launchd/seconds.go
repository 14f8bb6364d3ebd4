package launchd

import (
	"fmt"

	"github.com/THPTUHA/launchcron/pkg/extcron"
)

const secondsPerMinute = 60

type secondsMode int

const (
	// secondsIgnored means the seconds field is a plain zero and the
	// expression is scheduled at minute granularity.
	secondsIgnored secondsMode = iota
	// secondsEveryTick means every field, seconds included, is a wildcard.
	secondsEveryTick
	// secondsInterval means the seconds field tiles the minute with a fixed step.
	secondsInterval
)

// classifySeconds decides how the seconds field maps onto launchd. The
// returned step is only meaningful for secondsInterval.
func classifySeconds(sec extcron.Field, othersWildcard bool) (secondsMode, int, error) {
	if sec.Wildcard {
		if !othersWildcard {
			return 0, 0, fmt.Errorf("%w: a wildcard seconds field is only valid when every other field is also a wildcard (\"* * * * * *\"); use \"0\" for seconds to run at minute granularity", ErrSecondsField)
		}
		return secondsEveryTick, 0, nil
	}

	switch len(sec.Values) {
	case 0:
		return 0, 0, fmt.Errorf("%w: explicit seconds field %q holds no values", ErrInvariant, sec.Raw)
	case 1:
		v := sec.Values[0]
		if v != 0 {
			if othersWildcard {
				return 0, 0, fmt.Errorf("%w: seconds value %d must be 0; use \"*/N * * * * *\" to repeat every N seconds", ErrSecondsField, v)
			}
			return 0, 0, fmt.Errorf("%w: seconds value %d is only valid when all other fields are wildcard, use \"*/N * * * * *\" or a seconds value of 0", ErrSecondsField, v)
		}
		if othersWildcard && sec.IsStep() {
			return 0, 0, fmt.Errorf("%w: seconds step %q only ever produces 0; use \"* * * * *\" to run every minute", ErrDegenerateInterval, sec.Raw)
		}
		return secondsIgnored, 0, nil
	}

	step, ok := secondsStep(sec.Values)
	if !ok {
		return 0, 0, fmt.Errorf("%w: seconds values %s do not form a consistent interval starting at 0 and filling the minute", ErrSecondsField, sec)
	}
	if !othersWildcard {
		return 0, 0, fmt.Errorf("%w: seconds interval %s requires all other fields to be wildcard, use \"*/%d * * * * *\"", ErrSecondsField, sec, step)
	}
	return secondsInterval, step, nil
}

// secondsStep returns the common difference of values when they form an
// arithmetic progression from 0 whose next term reaches the end of the minute.
func secondsStep(values []int) (int, bool) {
	if len(values) < 2 || values[0] != 0 {
		return 0, false
	}
	step := values[1] - values[0]
	if step <= 0 {
		return 0, false
	}
	for i, v := range values {
		if v-values[0] != step*i {
			return 0, false
		}
	}
	if values[len(values)-1]+step < secondsPerMinute {
		return 0, false
	}
	return step, true
}
