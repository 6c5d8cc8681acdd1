// Package identifier manages resident identifiers of the form VH-YYYY-NNNN:
// the calendar year of registration and a sequence unique within that year.
// An identifier is allocated once and never reassigned or recycled; every
// clinical record references its resident through it.
package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Prefix starts every resident identifier.
const Prefix = "VH"

// Sequences are zero-padded to four digits but keep growing past 9999
// instead of wrapping, so validation accepts four or more digits.
var idPattern = regexp.MustCompile(`^VH-\d{4}-\d{4,}$`)

// Format renders an identifier for the given year and sequence.
func Format(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", Prefix, year, seq)
}

// IsValid reports whether id has the exact resident identifier shape.
func IsValid(id string) bool {
	return idPattern.MatchString(id)
}

// Parse splits a valid identifier into its year and sequence.
func Parse(id string) (year, seq int, ok bool) {
	if !idPattern.MatchString(id) {
		return 0, 0, false
	}
	parts := strings.Split(id, "-")
	year, _ = strconv.Atoi(parts[1])
	seq, _ = strconv.Atoi(parts[2])
	return year, seq, true
}

// Next proposes the next identifier for a year given the identifiers already
// assigned: one past the highest sequence found under the year's prefix, or
// 0001 when the year has none. Gaps are not refilled and identifiers with a
// malformed suffix are silently skipped. The same input set always yields
// the same proposal, which is also why two concurrent callers can collide;
// persistent allocation goes through an Allocator instead.
func Next(existing []string, year int) string {
	prefix := fmt.Sprintf("%s-%d-", Prefix, year)
	maxSeq := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		seq, err := strconv.Atoi(id[len(prefix):])
		if err != nil || seq < 0 {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return Format(year, maxSeq+1)
}
