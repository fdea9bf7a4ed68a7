package timerange

import (
	"fmt"
	"sort"
	"time"
)

// Range is a half-open time interval [Start, End). Adjacent ranges tile
// without ambiguity: a range ending at T does not overlap one starting at T.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New builds a Range, rejecting inverted bounds.
func New(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, fmt.Errorf("range start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Range{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// IsZero reports whether both bounds are unset.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether other lies fully inside r.
func (r Range) Contains(other Range) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Overlaps reports whether two half-open ranges intersect. Zero-length
// ranges and ranges that merely touch do not overlap.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Clip restricts r to the bounds of limit. The second return value is
// false when the ranges do not intersect.
func Clip(r, limit Range) (Range, bool) {
	if !Overlaps(r, limit) {
		return Range{}, false
	}
	out := r
	if out.Start.Before(limit.Start) {
		out.Start = limit.Start
	}
	if out.End.After(limit.End) {
		out.End = limit.End
	}
	return out, true
}

// Merge folds a set of ranges into the minimal sorted covering set. Ranges
// sharing a start are ordered by end descending so the larger one absorbs
// the smaller during the fold. Adjacent ranges (a.End == b.Start) merge.
// The output is sorted by start and pairwise non-overlapping.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.After(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, r := range sorted[1:] {
		if r.Start.After(current.End) {
			merged = append(merged, current)
			current = r
			continue
		}
		if r.End.After(current.End) {
			current.End = r.End
		}
	}
	merged = append(merged, current)
	return merged
}

// Subtract returns the parts of base not covered by cuts, ordered by start.
func Subtract(base Range, cuts []Range) []Range {
	remaining := []Range{base}
	for _, cut := range Merge(cuts) {
		next := remaining[:0:0]
		for _, r := range remaining {
			if !Overlaps(r, cut) {
				next = append(next, r)
				continue
			}
			if r.Start.Before(cut.Start) {
				next = append(next, Range{Start: r.Start, End: cut.Start})
			}
			if cut.End.Before(r.End) {
				next = append(next, Range{Start: cut.End, End: r.End})
			}
		}
		remaining = next
		if len(remaining) == 0 {
			break
		}
	}
	return remaining
}

// String renders the range for logs and error messages.
func (r Range) String() string {
	return fmt.Sprintf("%s - %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
