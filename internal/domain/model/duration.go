package model

import "fmt"

// FormatDuration renders a duration in whole seconds as "M:SS" with no
// leading zero on minutes and two-digit zero-padded seconds. Zero or
// negative input renders as the unknown-duration sentinel.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return UnknownDuration
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
