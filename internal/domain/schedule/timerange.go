package schedule

import (
	"fmt"
	"sort"
	"time"
)

// TimeRange is an availability window inside one day. Times are 24-hour
// HH:MM strings already localized to the doctor's timezone.
type TimeRange struct {
	Start              string  `json:"start"`
	End                string  `json:"end"`
	SlotDurationMin    int     `json:"slot_duration_min"`
	ConsultationTypeID string  `json:"consultation_type_id"`
	MaxPatients        int     `json:"max_patients"`
	Fee                float64 `json:"fee"`
}

// Interval is a candidate slot boundary produced by subdividing a TimeRange.
type Interval struct {
	Start string
	End   string
}

// ParseHM converts an HH:MM string to minutes since midnight.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, &ValidationError{Field: "time", Reason: fmt.Sprintf("%q is not HH:MM", hm)}
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate validates an ISO 8601 calendar date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", date)}
	}
	return d, nil
}

// Validate checks the range in isolation; overlap against sibling ranges
// is checked separately by CheckNoOverlap.
func (r TimeRange) Validate() error {
	start, err := ParseHM(r.Start)
	if err != nil {
		return err
	}
	end, err := ParseHM(r.End)
	if err != nil {
		return err
	}
	if start >= end {
		return &ValidationError{Field: "range", Reason: fmt.Sprintf("start %s must be before end %s", r.Start, r.End)}
	}
	if r.SlotDurationMin <= 0 {
		return &ValidationError{Field: "slot_duration_min", Reason: "must be positive"}
	}
	if r.MaxPatients < 1 {
		return &ValidationError{Field: "max_patients", Reason: "must be at least 1"}
	}
	if r.Fee < 0 {
		return &ValidationError{Field: "fee", Reason: "must not be negative"}
	}
	return nil
}

// Intersects reports whether [aStart,aEnd) and [bStart,bEnd) share any
// minute. Inputs must already be valid HH:MM strings.
func Intersects(aStart, aEnd, bStart, bEnd string) bool {
	as, _ := ParseHM(aStart)
	ae, _ := ParseHM(aEnd)
	bs, _ := ParseHM(bStart)
	be, _ := ParseHM(bEnd)
	return as < be && ae > bs
}

// CheckNoOverlap validates every range and rejects any pair of ranges
// that share time within the same day.
func CheckNoOverlap(ranges []TimeRange) error {
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	sorted := make([]TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		si, _ := ParseHM(sorted[i].Start)
		sj, _ := ParseHM(sorted[j].Start)
		return si < sj
	})

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if Intersects(prev.Start, prev.End, cur.Start, cur.End) {
			return &OverlapError{
				Start:         cur.Start,
				End:           cur.End,
				ConflictStart: prev.Start,
				ConflictEnd:   prev.End,
			}
		}
	}
	return nil
}

// Subdivide cuts [Start,End) into consecutive SlotDurationMin intervals.
// A trailing remainder shorter than the duration is discarded.
func (r TimeRange) Subdivide() []Interval {
	start, err := ParseHM(r.Start)
	if err != nil {
		return nil
	}
	end, err := ParseHM(r.End)
	if err != nil {
		return nil
	}
	if r.SlotDurationMin <= 0 {
		return nil
	}

	var out []Interval
	for cur := start; cur+r.SlotDurationMin <= end; cur += r.SlotDurationMin {
		out = append(out, Interval{
			Start: formatHM(cur),
			End:   formatHM(cur + r.SlotDurationMin),
		})
	}
	return out
}
