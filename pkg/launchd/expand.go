package launchd

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMaxEntries caps the number of calendar entries a single expression
// may expand into.
const DefaultMaxEntries = 65536

// Expansion turns a set of explicit fields into calendar entries. Callers
// pass a non-empty field list and the precomputed product of cardinalities.
type Expansion interface {
	Name() string
	Expand(fields []FieldValues, total int) []CalendarEntry
}

// CyclicExpansion is the legacy indexing scheme: entry i takes, for every
// field, the value at position i modulo that field's cardinality. It covers
// the full cross product only when the cardinalities are pairwise coprime.
type CyclicExpansion struct{}

func (CyclicExpansion) Name() string { return "cyclic" }

func (CyclicExpansion) Expand(fields []FieldValues, total int) []CalendarEntry {
	entries := make([]CalendarEntry, total)
	for i := range entries {
		entry := make(CalendarEntry, len(fields))
		for _, f := range fields {
			entry[f.Field] = f.Values[i%len(f.Values)]
		}
		entries[i] = entry
	}
	return entries
}

// CartesianExpansion enumerates the full cross product in mixed-radix
// order, the last field varying fastest.
type CartesianExpansion struct{}

func (CartesianExpansion) Name() string { return "cartesian" }

func (CartesianExpansion) Expand(fields []FieldValues, total int) []CalendarEntry {
	entries := make([]CalendarEntry, total)
	for i := range entries {
		entry := make(CalendarEntry, len(fields))
		rem := i
		for j := len(fields) - 1; j >= 0; j-- {
			f := fields[j]
			entry[f.Field] = f.Values[rem%len(f.Values)]
			rem /= len(f.Values)
		}
		entries[i] = entry
	}
	return entries
}

var expansions = map[string]Expansion{
	CyclicExpansion{}.Name():    CyclicExpansion{},
	CartesianExpansion{}.Name(): CartesianExpansion{},
}

// ExpansionNames lists the registered expansion strategies.
func ExpansionNames() []string {
	names := make([]string, 0, len(expansions))
	for name := range expansions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpansionByName looks up an expansion strategy. The empty name selects
// the cyclic default.
func ExpansionByName(name string) (Expansion, error) {
	if name == "" {
		return CyclicExpansion{}, nil
	}
	e, ok := expansions[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown expansion %q, possible choices are: %s", name, strings.Join(ExpansionNames(), ", "))
	}
	return e, nil
}

// permutations counts the entries fields expand into.
func permutations(fields []FieldValues) int {
	total := 1
	for _, f := range fields {
		total *= len(f.Values)
	}
	return total
}

// allMinutes stands in for an unrestricted schedule, which launchd cannot
// express as an empty dictionary.
func allMinutes() FieldValues {
	values := make([]int, 60)
	for i := range values {
		values[i] = i
	}
	return FieldValues{Field: FieldMinute, Values: values}
}

func expand(e Expansion, fields []FieldValues, limit int) ([]CalendarEntry, error) {
	if len(fields) == 0 {
		fields = []FieldValues{allMinutes()}
	}
	total := permutations(fields)
	if total > limit {
		return nil, &ExplosionError{Total: total, Limit: limit}
	}
	entries := e.Expand(fields, total)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: expansion of %d fields produced no entries", ErrInvariant, len(fields))
	}
	return entries, nil
}
