package showing

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slug lowercases title and collapses every run of non-alphanumerics into a single dash.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var timeslotLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"3 PM",
	"3PM",
	"15.04",
}

// NormalizeTimeslot converts 12h or 24h input into "HH:MM".
func NormalizeTimeslot(s string) (string, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeslotLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("invalid timeslot %q", s)
}

// NormalizeMonth accepts full or three letter month names and returns the lowercase full name.
func NormalizeMonth(s string) (string, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if len(in) >= 3 {
		for m := time.January; m <= time.December; m++ {
			name := strings.ToLower(m.String())
			if name == in || name[:3] == in {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("invalid month %q", s)
}

// NormalizeWeek returns the movie schedule form "week-N".
func NormalizeWeek(s string) (string, error) {
	n, err := parseWeekNumber(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("week-%d", n), nil
}
