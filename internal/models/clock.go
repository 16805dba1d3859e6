package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ClockTime is a wall-clock time of day in "HH:MM" form.
// "24:00" is a valid value and means midnight at the end of the day;
// it is used as a club closing time.
type ClockTime string

// Minutes converts the time to minutes since midnight.
func (t ClockTime) Minutes() (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(string(t), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	if h == 24 && m == 0 {
		return 24 * 60, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", t)
	}
	return h*60 + m, nil
}

// Valid reports whether the value parses as "HH:MM".
func (t ClockTime) Valid() bool {
	_, err := t.Minutes()
	return err == nil
}

// ClockFromMinutes formats minutes since midnight as "HH:MM".
func ClockFromMinutes(m int) ClockTime {
	return ClockTime(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// Date is a naive local calendar date in "YYYY-MM-DD" form.
// ISO dates compare correctly as strings, which the series operations
// rely on for date >= filtering.
type Date string

// Time parses the date at local midnight.
func (d Date) Time() (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", d, err)
	}
	return t, nil
}

// Valid reports whether the value parses as "YYYY-MM-DD".
func (d Date) Valid() bool {
	_, err := d.Time()
	return err == nil
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) (Date, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return Date(t.AddDate(0, 0, days).Format(dateLayout)), nil
}

// Weekday returns the day of week for the date.
func (d Date) Weekday() (time.Weekday, error) {
	t, err := d.Time()
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() (bool, error) {
	wd, err := d.Weekday()
	if err != nil {
		return false, err
	}
	return wd == time.Saturday || wd == time.Sunday, nil
}

// DateOf formats a time.Time as a Date.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}
