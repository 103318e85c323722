// Package view holds the navigation state of the attendance UI and routes
// user actions to the form, the store and the summary tracker.
package view

import (
	"context"
	"errors"
	"sync"

	"attendify/internal/attendance"
	"attendify/internal/metrics"
	"attendify/internal/summary"
)

// Name identifies one of the mutually exclusive views.
type Name string

const (
	Overview Name = "overview"
	Records  Name = "records"
	Insights Name = "insights"
)

var (
	ErrUnknownView          = errors.New("unknown view")
	ErrNoRecords            = errors.New("no records to analyze")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// ParseName validates a view name.
func ParseName(s string) (Name, error) {
	switch n := Name(s); n {
	case Overview, Records, Insights:
		return n, nil
	}
	return "", ErrUnknownView
}

// Row is a record as shown in the records table.
type Row struct {
	attendance.Record
	Badge string `json:"badge"`
}

// Snapshot is what a client renders for the current view.
type Snapshot struct {
	View     Name                 `json:"view"`
	Overview *attendance.Overview `json:"overview,omitempty"`
	Records  []Row                `json:"records"`
	Report   *summary.State       `json:"report,omitempty"`
	Count    int                  `json:"count"`
}

// Controller owns the current view.
type Controller struct {
	store   *attendance.Store
	form    *attendance.Form
	tracker *summary.Tracker
	window  int

	mu      sync.Mutex
	current Name
}

// New creates a controller starting on the overview.
func New(store *attendance.Store, form *attendance.Form, tracker *summary.Tracker, window int) *Controller {
	return &Controller{store: store, form: form, tracker: tracker, window: window, current: Overview}
}

// Current returns the active view.
func (c *Controller) Current() Name {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Navigate switches to view n.
func (c *Controller) Navigate(n Name) error {
	if _, err := ParseName(string(n)); err != nil {
		return err
	}
	c.set(n)
	return nil
}

func (c *Controller) set(n Name) {
	c.mu.Lock()
	c.current = n
	c.mu.Unlock()
}

// Submit saves a draft and shows the records view.
func (c *Controller) Submit(ctx context.Context, d attendance.Draft) (attendance.Record, error) {
	rec, err := c.form.Submit(ctx, d)
	if err != nil {
		return attendance.Record{}, err
	}
	metrics.RecordsAdded.Inc()
	c.set(Records)
	return rec, nil
}

// Delete removes a record once the user confirmed it.
func (c *Controller) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, err := c.store.Remove(ctx, id); err != nil {
		return err
	}
	metrics.RecordsRemoved.Inc()
	return nil
}

// GenerateReport shows the insights view and starts a summary of the
// current collection. An empty collection never reaches the service.
func (c *Controller) GenerateReport(ctx context.Context) error {
	c.set(Insights)
	records := c.store.Records()
	if len(records) == 0 {
		return ErrNoRecords
	}
	return c.tracker.Start(ctx, records)
}

// Report returns the summary request state.
func (c *Controller) Report() summary.State {
	return c.tracker.State()
}

// Snapshot returns the data for the active view.
func (c *Controller) Snapshot() Snapshot {
	records := c.store.Records()
	snap := Snapshot{View: c.Current(), Count: len(records)}
	switch snap.View {
	case Overview:
		ov := attendance.BuildOverview(records, c.window)
		snap.Overview = &ov
	case Records:
		snap.Records = Rows(records)
	case Insights:
		st := c.tracker.State()
		snap.Report = &st
	}
	return snap
}

// Rows decorates records with their status badge.
func Rows(records []attendance.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{Record: r, Badge: r.Status.Info().Badge})
	}
	return rows
}
