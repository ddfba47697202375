package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// TimeRange is the period Spotify computes top tracks over.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// TimeRanges lists the valid time ranges in selector order.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// Label returns the short name shown in selectors.
func (r TimeRange) Label() string {
	switch r {
	case ShortTerm:
		return "short"
	case MediumTerm:
		return "medium"
	case LongTerm:
		return "long"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of TimeRanges.
func (r TimeRange) Valid() bool {
	for _, v := range TimeRanges {
		if r == v {
			return true
		}
	}
	return false
}

// Next returns the following time range, wrapping around.
func (r TimeRange) Next() TimeRange {
	return TimeRanges[(indexOf(TimeRanges, r)+1)%len(TimeRanges)]
}

// Prev returns the preceding time range, wrapping around.
func (r TimeRange) Prev() TimeRange {
	return TimeRanges[(indexOf(TimeRanges, r)+len(TimeRanges)-1)%len(TimeRanges)]
}

// ParseTimeRange resolves user input to a TimeRange. Exact short and wire names
// are accepted as is; anything else is fuzzy matched against them so that
// "lng" or "med" still select a range. Input that matches names of more than
// one range is rejected as ambiguous.
func ParseTimeRange(s string) (TimeRange, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return "", fmt.Errorf("time range cannot be empty")
	}

	candidates := make([]string, 0, len(TimeRanges)*2)
	owners := make([]TimeRange, 0, len(TimeRanges)*2)
	for _, r := range TimeRanges {
		if input == r.Label() || input == string(r) {
			return r, nil
		}
		candidates = append(candidates, r.Label(), string(r))
		owners = append(owners, r, r)
	}

	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return "", fmt.Errorf("unknown time range %q: expected one of short, medium, long", s)
	}

	var found []TimeRange
	for _, m := range matches {
		if owner := owners[m.Index]; !slices.Contains(found, owner) {
			found = append(found, owner)
		}
	}
	if len(found) > 1 {
		labels := make([]string, len(found))
		for i, r := range found {
			labels[i] = r.Label()
		}
		return "", fmt.Errorf("ambiguous time range %q: matches %s", s, strings.Join(labels, ", "))
	}
	return found[0], nil
}

// TrackCount is the number of top tracks put into the playlist.
type TrackCount int

// TrackCounts lists the valid track counts in selector order.
var TrackCounts = []TrackCount{10, 20, 50}

// Valid reports whether c is one of TrackCounts.
func (c TrackCount) Valid() bool {
	for _, v := range TrackCounts {
		if c == v {
			return true
		}
	}
	return false
}

// Next returns the following track count, wrapping around.
func (c TrackCount) Next() TrackCount {
	return TrackCounts[(indexOf(TrackCounts, c)+1)%len(TrackCounts)]
}

// Prev returns the preceding track count, wrapping around.
func (c TrackCount) Prev() TrackCount {
	return TrackCounts[(indexOf(TrackCounts, c)+len(TrackCounts)-1)%len(TrackCounts)]
}

// ParseTrackCount accepts only the values in TrackCounts.
func ParseTrackCount(s string) (TrackCount, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid track count %q: %w", s, err)
	}
	c := TrackCount(n)
	if !c.Valid() {
		return 0, fmt.Errorf("invalid track count %d: expected one of 10, 20, 50", n)
	}
	return c, nil
}

// Selection is the user's query for the top tracks call.
type Selection struct {
	TimeRange TimeRange  `json:"time_range"`
	Count     TrackCount `json:"count"`
}

// DefaultSelection returns the initial selection: long term, ten tracks.
func DefaultSelection() Selection {
	return Selection{TimeRange: LongTerm, Count: 10}
}

// indexOf returns the position of v in values, or 0 for unknown values so
// cycling starts from the first entry.
func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}
