// Package season maps calendar dates to meteorological seasons.
package season

import (
	"fmt"
	"time"
)

// Season is a meteorological season name.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// All lists the seasons in display order.
var All = []Season{Spring, Summer, Autumn, Winter}

// ForDate returns the meteorological season for a date:
// Mar-May spring, Jun-Aug summer, Sep-Nov autumn, Dec-Feb winter.
func ForDate(date time.Time) Season {
	switch date.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}

// YearKey returns the season tagged with its year, e.g. "summer-2025".
// Winter spans two calendar years: December belongs to the winter that
// ends the following year, so 2024-12-15 and 2025-01-15 both map to
// "winter-2024-2025".
func YearKey(date time.Time) string {
	s := ForDate(date)
	if s != Winter {
		return fmt.Sprintf("%s-%d", s, date.Year())
	}
	if date.Month() == time.December {
		return fmt.Sprintf("winter-%d-%d", date.Year(), date.Year()+1)
	}
	return fmt.Sprintf("winter-%d-%d", date.Year()-1, date.Year())
}
