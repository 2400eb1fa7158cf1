package config

import (
	"math"
	"regexp"
	"strconv"
)

// isoDurationRegex matches the subset of ISO 8601 durations used by the
// configuration files: PT[nH][nM][nS].
var isoDurationRegex = regexp.MustCompile(`^PT(?:([0-9]+)H)?(?:([0-9]+)M)?(?:([0-9]+)S)?$`)

// ParseISODuration converts a restricted ISO 8601 duration into seconds.
// The boolean is false if the string doesn't match the grammar, or if the
// total doesn't fit in 16 bits. Callers apply their own default in that
// case.
func ParseISODuration(duration string) (uint16, bool) {
	match := isoDurationRegex.FindStringSubmatch(duration)
	if match == nil {
		return 0, false
	}

	var total uint64
	for i, unitSeconds := range []uint64{60 * 60, 60, 1} {
		group := match[i+1]
		if group == "" {
			continue
		}

		n, err := strconv.ParseUint(group, 10, 64)
		if err != nil || n > math.MaxUint16 {
			return 0, false
		}

		total += n * unitSeconds
		if total > math.MaxUint16 {
			return 0, false
		}
	}
	return uint16(total), true
}
