package types

import (
	"fmt"
	"time"
)

// Tick lengths, in 100ns units.
const (
	TicksPerMillisecond int64 = 10_000
	TicksPerSecond            = TicksPerMillisecond * 1000
	TicksPerMinute            = TicksPerSecond * 60
	TicksPerHour              = TicksPerMinute * 60
	TicksPerDay               = TicksPerHour * 24
)

const hexDigits = "0123456789ABCDEF"

// HexLiteral renders b as prefix + uppercase hex + suffix in a buffer sized
// up front from the input length.
func HexLiteral(prefix string, b []byte, suffix string) string {
	buf := make([]byte, 0, len(b)*2+len(prefix)+len(suffix))
	buf = append(buf, prefix...)
	for _, c := range b {
		buf = append(buf, hexDigits[c>>4], hexDigits[c&0x0f])
	}
	buf = append(buf, suffix...)
	return string(buf)
}

// Ticks converts d into 100ns ticks.
func Ticks(d time.Duration) int64 {
	return int64(d) / 100
}

// TimeSpanParts are the components of a duration, each truncated toward
// zero. Negative is set when any single component is negative.
type TimeSpanParts struct {
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
	Negative     bool
}

// SplitTimeSpan breaks d into its components. Each component is made
// non-negative on its own and flags the result as negative when it had to
// be flipped.
func SplitTimeSpan(d time.Duration) TimeSpanParts {
	ticks := Ticks(d)
	p := TimeSpanParts{
		Days:         int(ticks / TicksPerDay),
		Hours:        int(ticks / TicksPerHour % 24),
		Minutes:      int(ticks / TicksPerMinute % 60),
		Seconds:      int(ticks / TicksPerSecond % 60),
		Milliseconds: int(ticks / TicksPerMillisecond % 1000),
	}
	if p.Days < 0 {
		p.Days = -p.Days
		p.Negative = true
	}
	if p.Hours < 0 {
		p.Hours = -p.Hours
		p.Negative = true
	}
	if p.Minutes < 0 {
		p.Minutes = -p.Minutes
		p.Negative = true
	}
	if p.Seconds < 0 {
		p.Seconds = -p.Seconds
		p.Negative = true
	}
	if p.Milliseconds < 0 {
		p.Milliseconds = -p.Milliseconds
		p.Negative = true
	}
	return p
}

// TimeSpanToString formats d with format, which receives the sign string
// ("-" or "") and the signed tick count. The tick count keeps its own sign,
// so a "%s%d" format doubles the minus for negative durations.
func TimeSpanToString(d time.Duration, format string) string {
	sign := ""
	if SplitTimeSpan(d).Negative {
		sign = "-"
	}
	return fmt.Sprintf(format, sign, Ticks(d))
}
