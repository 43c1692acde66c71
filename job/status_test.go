package job

import (
	"errors"
	"testing"
	"time"

	qonos "github.com/frielp/qonos"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Status
	}{
		{"queued", StatusQueued},
		{"Running", StatusRunning},
		{"DONE", StatusDone},
		{"paused", Status("PAUSED")},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()
	for _, s := range []Status{StatusQueued, StatusRunning, StatusDone, StatusError, StatusCancelled} {
		if !s.Known() {
			t.Errorf("%q.Known() = false, want true", s)
		}
	}
	if Status("PAUSED").Known() {
		t.Error(`"PAUSED".Known() = true, want false`)
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusQueued, false},
		{StatusRunning, false},
		{StatusDone, true},
		{StatusError, true},
		{StatusCancelled, true},
		{Status("PAUSED"), true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%q.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	got, err := ParseTimeout("2026-09-01T12:00:00+02:00")
	if err != nil {
		t.Fatalf("ParseTimeout: %v", err)
	}
	want := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}

	if _, err := ParseTimeout("tomorrow"); !errors.Is(err, qonos.ErrInvalidTimeout) {
		t.Errorf("err = %v, want ErrInvalidTimeout", err)
	}
}
