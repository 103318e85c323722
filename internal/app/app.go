package app

import (
	"context"
	"fmt"
	"log/slog"

	"attendify/internal/attendance"
	"attendify/internal/config"
	"attendify/internal/gemini"
	"attendify/internal/store"
	"attendify/internal/summary"
	"attendify/internal/view"
)

// App is the wired set of components shared by the server and the CLI.
type App struct {
	Slot       store.Slot
	Store      *attendance.Store
	Form       *attendance.Form
	Summarizer *summary.Summarizer
	Tracker    *summary.Tracker
	Controller *view.Controller
}

// Build opens the configured slot, loads the records and wires the
// summary pipeline.
func Build(ctx context.Context, cfg config.App, logger *slog.Logger) (*App, error) {
	slot, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	st := attendance.NewStore(slot, logger.With("component", "store"))
	records, err := st.Load(ctx)
	if err != nil {
		_ = slot.Close()
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Info("records loaded", "backend", cfg.StoreBackend, "slot", cfg.SlotName, "count", len(records))

	form := attendance.NewForm(st)
	client := gemini.New(ctx, cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiTimeout)
	sum := summary.New(client, gemini.Config{
		Model:          cfg.GeminiModel,
		Temperature:    cfg.Temperature,
		ThinkingBudget: 0,
	}, logger.With("component", "summary"))
	tracker := summary.NewTracker(sum)

	return &App{
		Slot:       slot,
		Store:      st,
		Form:       form,
		Summarizer: sum,
		Tracker:    tracker,
		Controller: view.New(st, form, tracker, cfg.ActivityWindow),
	}, nil
}

// Close releases the slot backend.
func (a *App) Close() error {
	if a == nil || a.Slot == nil {
		return nil
	}
	return a.Slot.Close()
}
