// Package timeutil computes civil-day boundaries in the reference timezone of
// the deployment (America/Tegucigalpa). All daily sales/expense windows use
// these helpers so that totals do not drift when the server runs in UTC or in
// another region.
package timeutil

import (
	"time"
	_ "time/tzdata" // embed tzdata so containers without /usr/share/zoneinfo still resolve the zone
)

var honduras *time.Location

func init() {
	loc, err := time.LoadLocation("America/Tegucigalpa")
	if err != nil {
		// UTC-6 year round, no DST
		loc = time.FixedZone("America/Tegucigalpa", -6*60*60)
	}
	honduras = loc
}

// Location returns the reference timezone.
func Location() *time.Location { return honduras }

// Ahora returns the current instant in the reference timezone.
func Ahora() time.Time { return time.Now().In(honduras) }

// InicioDelDia returns 00:00:00.000 of t's civil day in the reference timezone.
func InicioDelDia(t time.Time) time.Time {
	t = t.In(honduras)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, honduras)
}

// FinDelDia returns 23:59:59.999999999 of t's civil day in the reference timezone.
func FinDelDia(t time.Time) time.Time {
	t = t.In(honduras)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), honduras)
}

// MismoDia reports whether a and b fall on the same civil day.
func MismoDia(a, b time.Time) bool {
	a, b = a.In(honduras), b.In(honduras)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
