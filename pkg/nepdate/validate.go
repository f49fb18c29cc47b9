package nepdate

import (
	"context"
	"time"

	errs "github.com/matzehuels/nepdate/pkg/errors"
)

// Supported year ranges of the remote service.
const (
	MinADYear = 1943
	MaxADYear = 2042
	MinBSYear = 2000
	MaxBSYear = 2099
)

// IsValidAD reports whether y-m-d is a real Gregorian date inside the
// range the service converts.
func IsValidAD(y, m, d int) bool {
	if y < MinADYear || y > MaxADYear || m < 1 || m > 12 || d < 1 || d > 31 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m
}

// IsValidBS reports whether y-m-d lies inside the BS ranges the service
// accepts. BS months have 29 to 32 days depending on the year and the
// table is not available locally, so no per-month day count is checked:
// 2081-01-32 passes here and is left to the server to reject.
func IsValidBS(y, m, d int) bool {
	return y >= MinBSYear && y <= MaxBSYear && m >= 1 && m <= 12 && d >= 1 && d <= 32
}

// Validate checks date against the source calendar of dir.
func Validate(dir Direction, date Date) error {
	var ok bool
	switch dir {
	case ADToBS:
		ok = IsValidAD(date.Year, date.Month, date.Day)
	case BSToAD:
		ok = IsValidBS(date.Year, date.Month, date.Day)
	default:
		return errs.New(errs.ErrCodeInvalidDirection, "unknown conversion direction %q", dir)
	}
	if !ok {
		return errs.New(errs.ErrCodeInvalidInput, "invalid %s date: %d-%d-%d", dir.Source(), date.Year, date.Month, date.Day)
	}
	return nil
}

// ValidatingDoer rejects dates that fail [Validate] before they reach Next.
type ValidatingDoer struct {
	Next Doer
}

// Do validates date and forwards it to Next only when valid.
func (v ValidatingDoer) Do(ctx context.Context, dir Direction, date Date) Result {
	if err := Validate(dir, date); err != nil {
		return Fail(err)
	}
	return v.Next.Do(ctx, dir, date)
}
