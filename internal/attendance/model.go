package attendance

import "errors"

// Status is the closed set of attendance buckets.
type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusLeave   Status = "Leave"
	StatusOthers  Status = "Others"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusLate, StatusLeave, StatusOthers}

// StatusInfo holds the display attributes of a status.
type StatusInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Badge string `json:"badge"`
}

var statusTable = map[Status]StatusInfo{
	StatusPresent: {Label: "Present", Color: "#10b981", Badge: "bg-emerald-100 text-emerald-700"},
	StatusLate:    {Label: "Late", Color: "#f59e0b", Badge: "bg-amber-100 text-amber-700"},
	StatusLeave:   {Label: "Leave", Color: "#ef4444", Badge: "bg-rose-100 text-rose-700"},
	StatusOthers:  {Label: "Others", Color: "#6366f1", Badge: "bg-slate-100 text-slate-700"},
}

// ErrInvalidStatus is returned for a status outside the closed set.
var ErrInvalidStatus = errors.New("invalid attendance status")

// ParseStatus validates s against the closed set.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusTable[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Info returns the display attributes for s. Unknown values render as Others.
func (s Status) Info() StatusInfo {
	if info, ok := statusTable[s]; ok {
		return info
	}
	return statusTable[StatusOthers]
}

// Record is one logged attendance event. Records are never edited.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	InTime    string `json:"inTime"`
	OutTime   string `json:"outTime"`
	Status    Status `json:"status"`
	Remarks   string `json:"remarks"`
	CreatedAt int64  `json:"createdAt"`
}

// Stats is derived from a record collection and never persisted.
type Stats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	OnLeave int `json:"onLeave"`
}
