// Package showing derives the (movie, day-of-week, week-of-month) key under
// which seats are unique, and owns the canonical auditorium layout.
package showing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxWeek is the last week bucket; days 29-31 fold into it.
const MaxWeek = 4

type Key struct {
	MovieID    uuid.UUID `json:"movie_id"`
	DayOfWeek  string    `json:"day_of_week"`
	WeekNumber string    `json:"week_number"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.MovieID, k.DayOfWeek, k.WeekNumber)
}

// Resolve computes the showing a ticket created at `at` belongs to. The
// caller is responsible for passing `at` in the cinema's local time zone.
func Resolve(at time.Time, movieID uuid.UUID) Key {
	return Key{
		MovieID:    movieID,
		DayOfWeek:  at.Weekday().String(),
		WeekNumber: WeekLabel(WeekOfMonth(at.Day())),
	}
}

// WeekOfMonth returns ceil(day/7) clipped to MaxWeek.
func WeekOfMonth(day int) int {
	w := (day + 6) / 7
	if w < 1 {
		return 1
	}
	if w > MaxWeek {
		return MaxWeek
	}
	return w
}

func WeekLabel(n int) string {
	return "Week " + strconv.Itoa(n)
}

// ParseDay accepts a weekday name in any case ("wed" and "Wednesday" both work).
func ParseDay(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := d.String()
			if strings.HasPrefix(strings.ToLower(name), s) {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("unknown day of week %q", s)
}

// ParseWeekLabel accepts "Week 2", "week-2", "week2" or "2" and returns "Week 2".
func ParseWeekLabel(s string) (string, error) {
	n, err := parseWeekNumber(s)
	if err != nil {
		return "", err
	}
	return WeekLabel(n), nil
}

func parseWeekNumber(s string) (int, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimPrefix(raw, "week")
	raw = strings.TrimLeft(raw, " -_")

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxWeek {
		return 0, fmt.Errorf("week must be between 1 and %d, got %q", MaxWeek, s)
	}
	return n, nil
}
