package nepdate

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/matzehuels/nepdate/pkg/errors"
)

// Date is a calendar date in either the AD or BS system. It is both the
// input of a conversion and its result; which calendar it belongs to is
// determined by the [Direction] it is used with.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// FromTime returns the AD date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String formats d as YYYY-MM-DD.
func (d Date) String() string { return Format(d, "YYYY-MM-DD") }

// Direction selects the endpoint, and so the source and target calendars,
// of a conversion.
type Direction string

const (
	ADToBS Direction = "ad-to-bs"
	BSToAD Direction = "bs-to-ad"
)

// ParseDirection accepts a path segment such as "ad-to-bs" or "BS-TO-AD".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case ADToBS, BSToAD:
		return d, nil
	}
	return "", errs.New(errs.ErrCodeInvalidDirection, "unknown conversion direction %q (want %s or %s)", s, ADToBS, BSToAD)
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool { return d == ADToBS || d == BSToAD }

// Source names the calendar of the input date: "AD" or "BS".
func (d Direction) Source() string {
	if d == BSToAD {
		return "BS"
	}
	return "AD"
}

// Target names the calendar of the converted date.
func (d Direction) Target() string {
	if d == BSToAD {
		return "AD"
	}
	return "BS"
}

// Format renders d by substituting YYYY with the year, MM with the
// zero-padded month and DD with the zero-padded day. Any other text in
// layout is copied verbatim. The zero Date formats as "".
func Format(d Date, layout string) string {
	if d.IsZero() {
		return ""
	}
	return strings.NewReplacer(
		"YYYY", fmt.Sprint(d.Year),
		"MM", fmt.Sprintf("%02d", d.Month),
		"DD", fmt.Sprintf("%02d", d.Day),
	).Replace(layout)
}

// FormatBS formats a BS date, defaulting to YYYY/MM/DD when layout is empty.
func FormatBS(d Date, layout string) string {
	if layout == "" {
		layout = "YYYY/MM/DD"
	}
	return Format(d, layout)
}

// FormatAD formats an AD date, defaulting to YYYY-MM-DD when layout is empty.
func FormatAD(d Date, layout string) string {
	if layout == "" {
		layout = "YYYY-MM-DD"
	}
	return Format(d, layout)
}
