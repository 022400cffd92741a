package events

import (
	"fmt"
	"time"
)

// Latin-script Serbian month names, matching the site copy.
var monthNames = [12]string{
	"januar", "februar", "mart", "april", "maj", "jun",
	"jul", "avgust", "septembar", "oktobar", "novembar", "decembar",
}

// FormatDate renders an ISO calendar date the way the site displays dates,
// e.g. "2025-06-01" -> "1. jun 2025." A value that does not parse is
// returned unchanged.
func FormatDate(value string) string {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d. %s %d.", t.Day(), monthNames[t.Month()-1], t.Year())
}
