package format

import (
	"fmt"
	"time"
)

// FmtPercent formats a pass rate as "97.50%".
func FmtPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FmtDuration formats a millisecond duration as "Xm Ys" or "Ys".
func FmtDuration(ms int64) string {
	s := int(time.Duration(ms) * time.Millisecond / time.Second)
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
