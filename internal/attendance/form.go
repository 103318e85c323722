package attendance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNameRequired is returned when a draft is submitted without a name.
var ErrNameRequired = errors.New("name required")

// Draft holds the fields of a record being entered.
type Draft struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	InTime  string `json:"inTime"`
	OutTime string `json:"outTime"`
	Status  Status `json:"status"`
	Remarks string `json:"remarks"`
}

// Form turns drafts into records and hands them to the store.
type Form struct {
	store *Store
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	draft Draft
	// dated is set once a submission has fixed the draft date; until then
	// the date follows the clock.
	dated bool
}

// FormOption customizes a Form.
type FormOption func(*Form)

// WithClock sets the time source used for default dates and createdAt.
func WithClock(now func() time.Time) FormOption {
	return func(f *Form) { f.now = now }
}

// WithIDGenerator sets the record id generator.
func WithIDGenerator(gen func() string) FormOption {
	return func(f *Form) { f.newID = gen }
}

// NewForm creates a form with today's defaults.
func NewForm(store *Store, opts ...FormOption) *Form {
	f := &Form{store: store, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(f)
	}
	f.draft = f.defaults()
	return f
}

func (f *Form) defaults() Draft {
	return Draft{
		Date:    f.today(),
		InTime:  "09:00",
		OutTime: "18:00",
		Status:  StatusPresent,
	}
}

// today is the UTC calendar date of the clock.
func (f *Form) today() string {
	return f.now().UTC().Format(time.DateOnly)
}

// current returns the draft with its date refreshed while no submission
// has fixed it. Callers hold f.mu.
func (f *Form) current() Draft {
	d := f.draft
	if !f.dated {
		d.Date = f.today()
	}
	return d
}

// Draft returns the current draft.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current()
}

// Fill copies the non-empty fields of d over the current draft defaults.
func (f *Form) Fill(d Draft) Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.current()
	out.Name = d.Name
	out.Remarks = d.Remarks
	if d.Date != "" {
		out.Date = d.Date
	}
	if d.InTime != "" {
		out.InTime = d.InTime
	}
	if d.OutTime != "" {
		out.OutTime = d.OutTime
	}
	if d.Status != "" {
		out.Status = d.Status
	}
	return out
}

// Submit creates a record from d and adds it to the store. On success the
// retained draft keeps d's date, times and status with name and remarks
// cleared.
func (f *Form) Submit(ctx context.Context, d Draft) (Record, error) {
	if strings.TrimSpace(d.Name) == "" {
		return Record{}, ErrNameRequired
	}
	if d.Status == "" {
		d.Status = StatusPresent
	}
	if !d.Status.Valid() {
		return Record{}, ErrInvalidStatus
	}
	rec := Record{
		ID:        f.newID(),
		Name:      d.Name,
		Date:      d.Date,
		InTime:    d.InTime,
		OutTime:   d.OutTime,
		Status:    d.Status,
		Remarks:   d.Remarks,
		CreatedAt: f.now().UnixMilli(),
	}
	if _, err := f.store.Add(ctx, rec); err != nil {
		return Record{}, err
	}

	f.mu.Lock()
	d.Name = ""
	d.Remarks = ""
	f.draft = d
	f.dated = true
	f.mu.Unlock()
	return rec, nil
}
