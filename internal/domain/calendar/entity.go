package calendar

import "time"

// SandwichDate is an org-wide non-Sunday holiday. An absence next to it turns
// the holiday itself into a deducted absence.
type SandwichDate struct {
	Date        time.Time
	Description *string
}
