package attendance

import (
	"fmt"
	"sort"
)

// DefaultActivityWindow is the number of distinct dates shown in the
// recent activity chart.
const DefaultActivityWindow = 7

// Slice is one bucket of the status distribution chart.
type Slice struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

// DayCount is the number of records logged for one date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview bundles everything the overview view renders.
type Overview struct {
	Stats     Stats      `json:"stats"`
	Breakdown []Slice    `json:"breakdown"`
	Activity  []DayCount `json:"activity"`
}

// ComputeStats counts records per tracked status. Others and unknown
// values only count toward Total.
func ComputeStats(records []Record) Stats {
	var s Stats
	for _, r := range records {
		s.Total++
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusLate:
			s.Late++
		case StatusLeave:
			s.OnLeave++
		}
	}
	return s
}

// Others returns the records not in a tracked bucket.
func (s Stats) Others() int {
	return s.Total - (s.Present + s.Late + s.OnLeave)
}

// StatusBreakdown returns the non-empty status buckets for charting.
// It panics if s violates present+late+onLeave <= total.
func StatusBreakdown(s Stats) []Slice {
	others := s.Others()
	if others < 0 {
		panic(fmt.Sprintf("attendance: stats out of range: %+v", s))
	}
	counts := map[Status]int{
		StatusPresent: s.Present,
		StatusLate:    s.Late,
		StatusLeave:   s.OnLeave,
		StatusOthers:  others,
	}
	out := make([]Slice, 0, len(Statuses))
	for _, st := range Statuses {
		n := counts[st]
		if n == 0 {
			continue
		}
		info := st.Info()
		out = append(out, Slice{Status: st, Label: info.Label, Count: n, Color: info.Color})
	}
	return out
}

// RecentActivity returns per-date counts for the last window distinct
// dates, oldest first. Dates are compared as plain strings.
func RecentActivity(records []Record, window int) []DayCount {
	if window <= 0 {
		window = DefaultActivityWindow
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Date]++
	}
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > window {
		dates = dates[len(dates)-window:]
	}
	out := make([]DayCount, 0, len(dates))
	for _, d := range dates {
		out = append(out, DayCount{Date: d, Count: counts[d]})
	}
	return out
}

// BuildOverview computes the overview bundle for records.
func BuildOverview(records []Record, window int) Overview {
	stats := ComputeStats(records)
	return Overview{
		Stats:     stats,
		Breakdown: StatusBreakdown(stats),
		Activity:  RecentActivity(records, window),
	}
}
