// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// Temperature and time patterns. Ranges use an en-dash, a hyphen-minus,
// or the word "to" between two numbers; such cells stay null because a
// range is never averaged into a single value.
var (
	tempProfileRe = regexp.MustCompile(numberPat + `\s*(?:[–—-]|to)\s*` + numberPat + `\s*°?\s*C\b`)
	tempValueRe   = regexp.MustCompile(`(` + numberPat + `)\s*°?\s*C\b`)

	timeRangeRe = regexp.MustCompile(numberPat + `\s*(?:[–—-]|to)\s*` + numberPat + `\s*min\b`)
	timeValueRe = regexp.MustCompile(`(` + numberPat + `)\s*min\b`)

	approxRe = regexp.MustCompile(`[~∼]`)

	// bareNumberRe accepts a cell that is nothing but one number, for
	// dedicated temperature or time columns that omit the unit.
	bareNumberRe = regexp.MustCompile(`^` + numberPat + `$`)
)

// TempTime parses a combined "Temp. Time" cell like "650 °C 15 min".
// Either half may be absent, a range, or approximate; each outcome is
// flagged independently. A temperature profile ("780–650 °C") nulls the
// temperature but keeps a plain time if one is present.
func TempTime(cell string) (tempC, timeMin *float64, flags []string) {
	if IsMissing(cell) {
		return nil, nil, []string{types.FlagFieldMissing}
	}
	raw := Clean(cell)

	approx := approxRe.MatchString(raw)
	if approx {
		flags = append(flags, types.FlagApproximateValue)
	}

	switch {
	case tempProfileRe.MatchString(raw):
		flags = append(flags, types.FlagTemperatureProfile)
	case approx:
		// An approximate temperature is recorded as absent, never as
		// the nearby number. The approximate flag above explains it.
	default:
		if m := tempValueRe.FindStringSubmatch(raw); m != nil {
			if v, ok := parseFloat(m[1]); ok {
				tempC = &v
			}
		}
	}

	if timeRangeRe.MatchString(raw) {
		flags = append(flags, types.FlagRangeUnresolved)
	} else if m := timeValueRe.FindStringSubmatch(raw); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			timeMin = &v
		}
	}

	// A null half of the cell must carry an explanation; when neither
	// the profile, approximate, nor range flag covers it, the value is
	// simply not there.
	if tempC == nil && !approx && !hasFlag(flags, types.FlagTemperatureProfile) {
		flags = appendUnique(flags, types.FlagFieldMissing)
	}
	if timeMin == nil && !hasFlag(flags, types.FlagRangeUnresolved) {
		flags = appendUnique(flags, types.FlagFieldMissing)
	}
	return tempC, timeMin, flags
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func appendUnique(flags []string, f string) []string {
	if hasFlag(flags, f) {
		return flags
	}
	return append(flags, f)
}

// Temperature parses a dedicated temperature column. A bare number is
// taken as degrees Celsius.
func Temperature(cell string) (*float64, []string) {
	if IsMissing(cell) {
		return nil, []string{types.FlagFieldMissing}
	}
	raw := Clean(cell)

	var flags []string
	if approxRe.MatchString(raw) {
		return nil, append(flags, types.FlagApproximateValue)
	}
	if tempProfileRe.MatchString(raw) {
		return nil, append(flags, types.FlagTemperatureProfile)
	}
	if m := tempValueRe.FindStringSubmatch(raw); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			return &v, flags
		}
	}
	if bareNumberRe.MatchString(raw) {
		if v, ok := parseFloat(raw); ok {
			return &v, flags
		}
	}
	return nil, append(flags, types.FlagTemperatureProfile)
}

// GrowthTime parses a dedicated time column, in minutes. A bare number
// is taken as minutes. An approximate time keeps its value alongside
// the flag; only a range stays null.
func GrowthTime(cell string) (*float64, []string) {
	if IsMissing(cell) {
		return nil, []string{types.FlagFieldMissing}
	}
	raw := Clean(cell)

	var flags []string
	if approxRe.MatchString(raw) {
		flags = append(flags, types.FlagApproximateValue)
	}
	if timeRangeRe.MatchString(raw) {
		return nil, append(flags, types.FlagRangeUnresolved)
	}
	if m := timeValueRe.FindStringSubmatch(raw); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			return &v, flags
		}
	}
	if bareNumberRe.MatchString(raw) {
		if v, ok := parseFloat(raw); ok {
			return &v, flags
		}
	}
	return nil, append(flags, types.FlagRangeUnresolved)
}
