package launchd

import (
	"errors"
	"sync"
	"testing"

	"github.com/THPTUHA/launchcron/pkg/extcron"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendar(t *testing.T, s Schedule) []CalendarEntry {
	t.Helper()
	cal, ok := s.(StartCalendarInterval)
	require.True(t, ok, "expected StartCalendarInterval, got %T", s)
	return cal.Entries
}

func TestTranslateFirstWeekAtMidnight(t *testing.T) {
	s, err := Translate("0 0 1-7 * *")
	require.NoError(t, err)

	entries := calendar(t, s)
	require.Len(t, entries, 7)
	for i, e := range entries {
		assert.Equal(t, CalendarEntry{FieldMinute: 0, FieldHour: 0, FieldDay: i + 1}, e)
	}
}

func TestTranslateIntervals(t *testing.T) {
	tests := []struct {
		expr    string
		seconds int
	}{
		{"*/10 * * * * *", 10},
		{"*/30 * * * * *", 30},
		{"0,20,40 * * * * *", 20},
		{"* * * * * *", 1},
		{"@every 90s", 90},
		{"@every 1h", 3600},
		{"@every 500ms", 1},
		{"@EVERY 2m", 120},
		{"*/10 * * * * */1", 10},
		{"*/10 */1 * * * *", 10},
		{"*/15 * * * * ?/1", 15},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := Translate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, StartInterval{Seconds: tt.seconds}, s)
		})
	}
}

func TestTranslateReboot(t *testing.T) {
	for _, expr := range []string{"@reboot", "  @REBOOT ", "@Reboot"} {
		s, err := Translate(expr)
		require.NoError(t, err)
		assert.Equal(t, RunAtLoad{}, s)
		assert.True(t, IsReboot(expr))
	}
	assert.False(t, IsReboot("@rebooted"))
}

func TestTranslateEveryMinute(t *testing.T) {
	for _, expr := range []string{"* * * * *", "0 * * * * *", "* * * * */1"} {
		s, err := Translate(expr)
		require.NoError(t, err)

		entries := calendar(t, s)
		require.Len(t, entries, 60)
		for i, e := range entries {
			assert.Equal(t, CalendarEntry{FieldMinute: i}, e)
		}
	}
}

func TestTranslateCalendar(t *testing.T) {
	tests := []struct {
		expr     string
		expected []CalendarEntry
	}{
		{
			expr:     "30 9 * * 1-5",
			expected: []CalendarEntry{{FieldMinute: 30, FieldHour: 9, FieldWeekday: 1}, {FieldMinute: 30, FieldHour: 9, FieldWeekday: 2}, {FieldMinute: 30, FieldHour: 9, FieldWeekday: 3}, {FieldMinute: 30, FieldHour: 9, FieldWeekday: 4}, {FieldMinute: 30, FieldHour: 9, FieldWeekday: 5}},
		},
		{
			expr:     "0 12 * * 0,7",
			expected: []CalendarEntry{{FieldMinute: 0, FieldHour: 12, FieldWeekday: 0}},
		},
		{
			expr:     "15 4 * * 7",
			expected: []CalendarEntry{{FieldMinute: 15, FieldHour: 4, FieldWeekday: 0}},
		},
		{
			expr:     "@monthly",
			expected: []CalendarEntry{{FieldMinute: 0, FieldHour: 0, FieldDay: 1}},
		},
		{
			expr:     "0 0 0 1 1 *",
			expected: []CalendarEntry{{FieldMinute: 0, FieldHour: 0, FieldDay: 1, FieldMonth: 1}},
		},
		{
			expr:     "* 3 * * *",
			expected: []CalendarEntry{{FieldHour: 3}},
		},
		{
			expr:     "0 0 * * */1",
			expected: []CalendarEntry{{FieldMinute: 0, FieldHour: 0}},
		},
		{
			expr:     "0 0 * * 5/2",
			expected: []CalendarEntry{{FieldMinute: 0, FieldHour: 0, FieldWeekday: 5}},
		},
		{
			expr:     "0 8 * * 1/3",
			expected: []CalendarEntry{{FieldMinute: 0, FieldHour: 8, FieldWeekday: 1}, {FieldMinute: 0, FieldHour: 8, FieldWeekday: 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := Translate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, calendar(t, s))
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		expr    string
		err     error
		message string
	}{
		{expr: "* 1 * * * *", err: ErrSecondsField},
		{expr: "1 * * * * *", err: ErrSecondsField, message: "must be 0"},
		{expr: "1 * 3 * * *", err: ErrSecondsField, message: "only valid when all other fields are wildcard"},
		{expr: "*/15 0 * * * *", err: ErrSecondsField},
		{expr: "0-20/10 * * * * *", err: ErrSecondsField},
		{expr: "*/100 * * * * *", err: ErrDegenerateInterval},
		{expr: "0/75 * * * * *", err: ErrDegenerateInterval},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := Translate(tt.expr)
			assert.Nil(t, s)
			require.ErrorIs(t, err, tt.err)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestTranslateUpstreamErrors(t *testing.T) {
	// parser errors reach the caller unchanged
	p := extcron.NewParser()
	for _, expr := range []string{"0 0 31 2 *", "61 * * * *", "not a cron", "@fortnightly", "@every never"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Translate(expr)
			require.Error(t, err)
			_, perr := p.Parse(expr)
			require.Error(t, perr)
			assert.Equal(t, perr.Error(), err.Error())
		})
	}
}

func TestTranslateExplosion(t *testing.T) {
	s, err := Translate("0-59 0-23 1-31 1-12 *")
	assert.Nil(t, s)

	var explosion *ExplosionError
	require.ErrorAs(t, err, &explosion)
	assert.Equal(t, 60*24*31*12, explosion.Total)

	s, err = Translate("0-59 0-23 1-31 * *")
	require.NoError(t, err)
	assert.Len(t, calendar(t, s), 60*24*31)

	_, err = NewTranslator(WithMaxEntries(5)).Translate("0 0 1-7 * *")
	require.ErrorAs(t, err, &explosion)
	assert.Equal(t, 7, explosion.Total)
	assert.Equal(t, 5, explosion.Limit)
}

func TestTranslateWithCartesianExpansion(t *testing.T) {
	tr := NewTranslator(WithExpansion(CartesianExpansion{}))
	s, err := tr.Translate("0 0,12 1,15 * *")
	require.NoError(t, err)
	assert.Equal(t, []CalendarEntry{
		{FieldMinute: 0, FieldHour: 0, FieldDay: 1},
		{FieldMinute: 0, FieldHour: 0, FieldDay: 15},
		{FieldMinute: 0, FieldHour: 12, FieldDay: 1},
		{FieldMinute: 0, FieldHour: 12, FieldDay: 15},
	}, calendar(t, s))

	// the legacy scheme only reaches the diagonal here
	s, err = Translate("0 0,12 1,15 * *")
	require.NoError(t, err)
	assert.Equal(t, []CalendarEntry{
		{FieldMinute: 0, FieldHour: 0, FieldDay: 1},
		{FieldMinute: 0, FieldHour: 12, FieldDay: 15},
		{FieldMinute: 0, FieldHour: 0, FieldDay: 1},
		{FieldMinute: 0, FieldHour: 12, FieldDay: 15},
	}, calendar(t, s))
}

type stubParser struct {
	fs *extcron.FieldSet
}

func (p stubParser) Parse(spec string) (cron.Schedule, error) {
	return nil, errors.New("not implemented")
}

func (p stubParser) ParseFields(spec string) (*extcron.FieldSet, error) {
	return p.fs, nil
}

func TestTranslateInvariantViolations(t *testing.T) {
	fs := everyMinute()
	fs.Hour = extcron.Field{Raw: "H"}
	_, err := NewTranslator(WithParser(stubParser{fs: fs})).Translate("0 H * * *")
	assert.ErrorIs(t, err, ErrInvariant)

	_, err = NewTranslator(WithParser(stubParser{})).Translate("@every 5s")
	assert.ErrorContains(t, err, "not implemented")
}

func TestTranslateFieldsSecondsPresence(t *testing.T) {
	tr := NewTranslator()
	fs := everyMinute()
	fs.Second = extcron.Field{}
	fs.Minute = explicit("5", 5)

	s, err := tr.TranslateFields(fs)
	require.NoError(t, err)
	assert.Equal(t, []CalendarEntry{{FieldMinute: 5}}, calendar(t, s))

	fs.HasSeconds = true
	_, err = tr.TranslateFields(fs)
	assert.ErrorIs(t, err, ErrInvariant)

	fs.Second = explicit("5", 5)
	_, err = tr.TranslateFields(fs)
	assert.ErrorIs(t, err, ErrSecondsField)
}

func TestTranslateConcurrent(t *testing.T) {
	tr := NewTranslator()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := tr.Translate("0 0 1-7 * *")
			if assert.NoError(t, err) {
				assert.Len(t, s.(StartCalendarInterval).Entries, 7)
			}
		}()
	}
	wg.Wait()
}
