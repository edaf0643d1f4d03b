package showing

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Row sizes of the auditorium, front (A) to back (H).
var rowSizes = []int{8, 10, 12, 12, 12, 12, 14, 14}

var seatPattern = regexp.MustCompile(`^([A-Z])([0-9]{1,2})$`)

// SeatCount is the number of seats in the canonical layout.
var SeatCount = func() int {
	total := 0
	for _, n := range rowSizes {
		total += n
	}
	return total
}()

// Seats lists every seat id in row-major order (A1..A8, B1..B10, ...).
func Seats() []string {
	seats := make([]string, 0, SeatCount)
	for i, n := range rowSizes {
		row := string(rune('A' + i))
		for col := 1; col <= n; col++ {
			seats = append(seats, row+strconv.Itoa(col))
		}
	}
	return seats
}

// ValidSeat reports whether seat is well formed and inside the layout.
func ValidSeat(seat string) error {
	m := seatPattern.FindStringSubmatch(seat)
	if m == nil {
		return fmt.Errorf("malformed seat %q", seat)
	}

	row := int(m[1][0] - 'A')
	if row >= len(rowSizes) {
		return fmt.Errorf("seat %q: unknown row %s", seat, m[1])
	}

	col, _ := strconv.Atoi(m[2])
	if col < 1 || col > rowSizes[row] {
		return fmt.Errorf("seat %q: row %s has seats 1-%d", seat, m[1], rowSizes[row])
	}
	return nil
}

// SortSeats orders seat ids the way Seats lists them: by row, then by
// number, so B2 comes before B10.
func SortSeats(seats []string) {
	sort.Slice(seats, func(i, j int) bool {
		a, b := seats[i], seats[j]
		if a[:1] != b[:1] {
			return a[:1] < b[:1]
		}
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
}
