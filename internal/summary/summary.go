package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"attendify/internal/attendance"
	"attendify/internal/gemini"
	"attendify/internal/metrics"
)

const (
	// EmptyResult is returned when the model produced no text.
	EmptyResult = "Unable to generate analysis at this time."
	// Unavailable is returned whenever the generation call fails.
	Unavailable = "AI analysis is currently unavailable. Please check your configuration."
)

const instruction = `Analyze the following attendance records and provide a professional, data-driven executive summary.
Highlight trends, identify potential punctuality issues, and offer 3 actionable recommendations for management.`

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, cfg gemini.Config, prompt string) (string, error)
}

// promptRecord is the outbound shape of a record; id and createdAt stay local.
type promptRecord struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	In      string `json:"in"`
	Out     string `json:"out"`
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// Summarizer turns a record collection into an executive summary.
type Summarizer struct {
	gen Generator
	cfg gemini.Config
	log *slog.Logger
}

// New creates a summarizer.
func New(gen Generator, cfg gemini.Config, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{gen: gen, cfg: cfg, log: logger}
}

// Prompt builds the instruction plus JSON data block for records.
func Prompt(records []attendance.Record) (string, error) {
	rows := make([]promptRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, promptRecord{
			Name:    r.Name,
			Date:    r.Date,
			In:      r.InTime,
			Out:     r.OutTime,
			Status:  string(r.Status),
			Remarks: r.Remarks,
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nData:\n")
	sb.Write(data)
	return sb.String(), nil
}

// Summarize never fails; errors turn into the Unavailable text.
func (s *Summarizer) Summarize(ctx context.Context, records []attendance.Record) string {
	text, _ := s.summarize(ctx, records)
	return text
}

// summarize also reports the underlying failure for state tracking.
func (s *Summarizer) summarize(ctx context.Context, records []attendance.Record) (string, error) {
	prompt, err := Prompt(records)
	if err != nil {
		s.log.Error("build summary prompt", "error", err)
		metrics.Summaries.WithLabelValues("failed").Inc()
		return Unavailable, err
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, s.cfg, prompt)
	metrics.SummaryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("summary generation failed", "error", err, "model", s.cfg.Model, "records", len(records))
		metrics.Summaries.WithLabelValues("failed").Inc()
		return Unavailable, err
	}
	if text == "" {
		metrics.Summaries.WithLabelValues("empty").Inc()
		return EmptyResult, nil
	}
	metrics.Summaries.WithLabelValues("ok").Inc()
	return text, nil
}
