package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(t *testing.T) (*Form, *Store) {
	t.Helper()
	s := NewStore(&memSlot{}, nil)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	n := 0
	clock := func() time.Time { return time.Date(2024, 6, 3, 8, 30, 0, 0, time.UTC) }
	f := NewForm(s, WithClock(clock), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return f, s
}

func TestFormDefaults(t *testing.T) {
	f, _ := newTestForm(t)
	assert.Equal(t, Draft{Date: "2024-06-03", InTime: "09:00", OutTime: "18:00", Status: StatusPresent}, f.Draft())
}

func TestFormSubmit(t *testing.T) {
	f, s := newTestForm(t)

	d := f.Fill(Draft{Name: "Ana", Status: StatusLate, InTime: "09:20", Remarks: "traffic"})
	got, err := f.Submit(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, Record{
		ID: "id-1", Name: "Ana", Date: "2024-06-03", InTime: "09:20", OutTime: "18:00",
		Status: StatusLate, Remarks: "traffic",
		CreatedAt: time.Date(2024, 6, 3, 8, 30, 0, 0, time.UTC).UnixMilli(),
	}, got)
	assert.Equal(t, []Record{got}, s.Records())

	// name and remarks reset, the rest carries over
	assert.Equal(t, Draft{Date: "2024-06-03", InTime: "09:20", OutTime: "18:00", Status: StatusLate}, f.Draft())
}

func TestFormSubmitRequiresName(t *testing.T) {
	f, s := newTestForm(t)
	_, err := f.Submit(context.Background(), f.Fill(Draft{Name: "   "}))
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Zero(t, s.Len())
}

func TestFormSubmitRejectsUnknownStatus(t *testing.T) {
	f, s := newTestForm(t)
	_, err := f.Submit(context.Background(), Draft{Name: "Bo", Status: "Sometimes"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, s.Len())
}

func TestFormSubmitUniqueIDs(t *testing.T) {
	s := NewStore(&memSlot{}, nil)
	f := NewForm(s)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		r, err := f.Submit(context.Background(), f.Fill(Draft{Name: "x"}))
		require.NoError(t, err)
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}

func TestFormDefaultDateFollowsClockUntilSubmit(t *testing.T) {
	now := time.Date(2024, 6, 3, 23, 59, 0, 0, time.UTC)
	s := NewStore(&memSlot{}, nil)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	f := NewForm(s, WithClock(func() time.Time { return now }))
	assert.Equal(t, "2024-06-03", f.Draft().Date)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, "2024-06-04", f.Draft().Date)
	assert.Equal(t, "2024-06-04", f.Fill(Draft{Name: "Ana"}).Date)

	_, err = f.Submit(context.Background(), f.Fill(Draft{Name: "Ana", Date: "2024-06-01"}))
	require.NoError(t, err)

	// a submitted date sticks across the next midnight
	now = now.Add(24 * time.Hour)
	assert.Equal(t, "2024-06-01", f.Draft().Date)
	assert.Equal(t, "2024-06-01", f.Fill(Draft{Name: "Bo"}).Date)
}

func TestFormDefaultDateIsUTC(t *testing.T) {
	ahead := time.FixedZone("UTC+9", 9*60*60)
	clock := func() time.Time { return time.Date(2024, 6, 4, 7, 0, 0, 0, ahead) }
	f := NewForm(NewStore(&memSlot{}, nil), WithClock(clock))
	assert.Equal(t, "2024-06-03", f.Draft().Date)
}
