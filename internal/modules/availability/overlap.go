package availability

import (
	"time"

	"resortbooking/internal/domain"
)

// Overlaps reports whether [qs, qe) and [bs, be) intersect. Touching intervals do not.
func Overlaps(qs, qe, bs, be time.Time) bool {
	return qs.Before(be) && qe.After(bs)
}

func stayInterval(rec domain.StayRecord) (time.Time, time.Time, bool) {
	in, ok := domain.ParseInstant(rec.CheckIn)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	out, ok := domain.ParseInstant(rec.CheckOut)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}
