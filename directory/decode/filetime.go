package decode

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// 100ns ticks between 1601-01-01 and 1970-01-01.
	filetimeEpochOffset = 116444736000000000
	filetimeNever       = int64(math.MaxInt64)
)

// Sentinel renderings for FILETIME values that carry no calendar meaning.
const (
	NotRecorded  = "not recorded"
	NeverExpires = "never expires"
)

// Filetime is a decoded Windows FILETIME. Exactly one of Time or Sentinel is
// meaningful: Sentinel is empty when Time holds a real instant.
type Filetime struct {
	Time     time.Time
	Sentinel string
}

// IsTime reports whether the value decoded to a real calendar instant.
func (f Filetime) IsTime() bool {
	return f.Sentinel == ""
}

func (f Filetime) String() string {
	if f.Sentinel != "" {
		return f.Sentinel
	}
	return f.Time.String()
}

// ParseFiletime decodes a textual 100-nanosecond-interval counter since
// 1601-01-01 UTC. Zero means the event was never recorded; the maximum
// representable value means "never expires". Everything else becomes a UTC
// calendar timestamp. Purely numeric, no timezone inference beyond UTC.
func ParseFiletime(s string) (Filetime, error) {
	ticks, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Filetime{}, fmt.Errorf("invalid FILETIME integer %q: %w", s, err)
	}

	switch ticks {
	case 0:
		return Filetime{Sentinel: NotRecorded}, nil
	case filetimeNever:
		return Filetime{Sentinel: NeverExpires}, nil
	}

	nsSinceUnix := (ticks - filetimeEpochOffset) * 100
	return Filetime{Time: time.Unix(0, nsSinceUnix).UTC()}, nil
}
