package player

import (
	"math"
	"strconv"
)

// winRate is the percentage of games won, rounded to the nearest whole
// number. Zero games means zero, not a division error.
func winRate(wins, totalGames uint32) int {
	if totalGames == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(totalGames) * 100))
}

// formatPoints renders a score with thousands separators, e.g. 1234567
// becomes "1,234,567".
func formatPoints(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
