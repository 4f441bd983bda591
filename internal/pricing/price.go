// Package pricing computes the final appointment price from the
// professional's base session price and the chosen session type.
package pricing

import "strings"

// Price applies the session-type modifier and truncates to whole currency
// units. Truncation (not rounding) is load-bearing: stored appointment
// values must match what earlier deployments charged.
func Price(base float64, sessionType string) int {
	final := base
	switch {
	case strings.Contains(sessionType, "Casal"):
		final = base * 1.5
	case strings.Contains(sessionType, "Pacote"):
		final = base * 3.5
	}
	return int(final)
}
