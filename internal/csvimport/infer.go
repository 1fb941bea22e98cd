package csvimport

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/orsinium-labs/enum"
)

// Affinity represents the SQLite type affinity inferred for a column.
type Affinity = enum.Member[string]

var (
	AffinityInteger = Affinity{Value: "INTEGER"}
	AffinityReal    = Affinity{Value: "REAL"}
	AffinityText    = Affinity{Value: "TEXT"}
)

// NormalizeName turns a raw CSV header field into a SQL-friendly
// identifier: trimmed, lowercased, runs of non-alphanumerics collapsed
// to a single underscore.
func NormalizeName(raw string) string {
	var b strings.Builder
	lastUnderscore := true // Trims leading underscores too.

	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}

// inferColumnAffinity inspects every value of column idx and returns
// the narrowest affinity that can hold all of them. Empty fields are
// NULLs and do not vote. A column with no values at all is TEXT.
func inferColumnAffinity(records [][]string, idx int) Affinity {
	affinity := AffinityInteger
	sawValue := false

	for _, record := range records {
		field := strings.TrimSpace(record[idx])
		if field == "" {
			continue
		}
		sawValue = true

		affinity = widen(affinity, fieldAffinity(field))
		if affinity == AffinityText {
			break
		}
	}

	if !sawValue {
		return AffinityText
	}
	return affinity
}

// fieldAffinity classifies a single non-empty field.
func fieldAffinity(field string) Affinity {
	if _, err := strconv.ParseInt(field, 10, 64); err == nil {
		return AffinityInteger
	}
	if _, err := strconv.ParseFloat(field, 64); err == nil {
		return AffinityReal
	}
	return AffinityText
}

// widen returns the wider of two affinities (INTEGER < REAL < TEXT).
func widen(a, b Affinity) Affinity {
	rank := func(af Affinity) int {
		switch af {
		case AffinityInteger:
			return 0
		case AffinityReal:
			return 1
		default:
			return 2
		}
	}

	if rank(b) > rank(a) {
		return b
	}
	return a
}

// convertField converts a CSV field into the Go value bound for a
// column with the given affinity. Empty fields become NULL.
func convertField(field string, affinity string) any {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return nil
	}

	switch affinity {
	case AffinityInteger.Value:
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return v
		}
	case AffinityReal.Value:
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return v
		}
	}

	return field
}
