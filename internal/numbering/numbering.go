// Package numbering formats human-readable document numbers.
package numbering

import (
	"fmt"

	"quotely/internal/domain"
)

// Next returns the number following existing documents of kind, e.g. QT-20240001.
// The sequence is zero-padded to four digits and widens past 9999.
func Next(kind domain.DocumentKind, year, existing int) string {
	return fmt.Sprintf("%s-%d%04d", kind.Prefix(), year, existing+1)
}

// SequenceYear returns the counter key for year under scope. Lifetime sequences
// share one counter, keyed as year 0.
func SequenceYear(scope domain.NumberingScope, year int) int {
	if scope == domain.NumberingLifetime {
		return 0
	}
	return year
}
