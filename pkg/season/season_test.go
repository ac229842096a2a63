package season

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestForDate(t *testing.T) {
	cases := []struct {
		date string
		want Season
	}{
		{"2024-03-01", Spring},
		{"2024-05-31", Spring},
		{"2024-06-15", Summer},
		{"2024-08-31", Summer},
		{"2024-09-01", Autumn},
		{"2024-11-30", Autumn},
		{"2024-12-01", Winter},
		{"2025-01-15", Winter},
		{"2025-02-28", Winter},
	}
	for _, c := range cases {
		if got := ForDate(date(c.date)); got != c.want {
			t.Errorf("ForDate(%s) = %s, want %s", c.date, got, c.want)
		}
	}
}

func TestYearKeyWinterSpansYears(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-02-15", "winter-2023-2024"},
		{"2024-03-15", "spring-2024"},
		{"2024-06-15", "summer-2024"},
		{"2024-09-15", "autumn-2024"},
		{"2024-12-15", "winter-2024-2025"},
		{"2025-01-15", "winter-2024-2025"},
	}
	for _, c := range cases {
		if got := YearKey(date(c.date)); got != c.want {
			t.Errorf("YearKey(%s) = %s, want %s", c.date, got, c.want)
		}
	}
}
