// Package humanfmt formats byte counts, record counts, and rates for CLI and
// log output.
package humanfmt

import (
	"fmt"
	"time"
)

// Binary (IEC) units.
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
	TiB = 1 << 40
)

// Bytes formats a byte count using IEC binary units, e.g. "1.23 GiB".
func Bytes(b int64) string {
	switch {
	case b < 0:
		return fmt.Sprintf("%d B", b)
	case b >= TiB:
		return fmt.Sprintf("%.2f TiB", float64(b)/TiB)
	case b >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(b)/GiB)
	case b >= MiB:
		return fmt.Sprintf("%.2f MiB", float64(b)/MiB)
	case b >= KiB:
		return fmt.Sprintf("%.2f KiB", float64(b)/KiB)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// Count formats a record count with thousands separators, e.g. "12,345,678".
func Count(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// Rate formats records per second for a processed count and elapsed time,
// e.g. "3.2M rec/s".
func Rate(records uint64, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	perSec := float64(records) / d.Seconds()
	switch {
	case perSec >= 1e9:
		return fmt.Sprintf("%.1fB rec/s", perSec/1e9)
	case perSec >= 1e6:
		return fmt.Sprintf("%.1fM rec/s", perSec/1e6)
	case perSec >= 1e3:
		return fmt.Sprintf("%.1fK rec/s", perSec/1e3)
	default:
		return fmt.Sprintf("%.0f rec/s", perSec)
	}
}
