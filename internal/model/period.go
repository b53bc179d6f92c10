package model

import (
	"fmt"
	"time"
)

// YearMonth is a calendar month used as the common period key when loan cash flows
// and life-settlement premiums are compared.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the calendar month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// String formats the period as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Quarter returns the YYYY-Qn label of the quarter containing the month.
func (ym YearMonth) Quarter() string {
	return fmt.Sprintf("%04d-Q%d", ym.Year, (int(ym.Month)-1)/3+1)
}

// MarshalText encodes the period as YYYY-MM so it can be used in JSON bodies and map keys.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText parses a YYYY-MM period.
func (ym *YearMonth) UnmarshalText(b []byte) error {
	t, err := time.Parse("2006-01", string(b))
	if err != nil {
		return fmt.Errorf("invalid period %q: %w", string(b), err)
	}
	*ym = YearMonthOf(t)
	return nil
}
