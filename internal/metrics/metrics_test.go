package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"SheetSentinel/internal/model"
)

func TestObserveSuccess(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSuccess(model.Signal{Kind: model.SignalBuy, Strength: 0.75}, 20*time.Millisecond)
	m.ObserveSuccess(model.Signal{Kind: model.SignalHold}, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("ok runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Signals.WithLabelValues("BUY")); got != 1 {
		t.Errorf("BUY signals = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LastStrength); got != 0 {
		t.Errorf("last strength = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(m.RunDuration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestObserveFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveFailure(true, time.Second)
	m.ObserveFailure(false, time.Second)

	if got := testutil.ToFloat64(m.FetchFailures); got != 1 {
		t.Errorf("fetch failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeFetchError)); got != 1 {
		t.Errorf("fetch_error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeError)); got != 1 {
		t.Errorf("analysis_error runs = %v, want 1", got)
	}
}

func TestObserveNotification(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveNotification(nil)
	m.ObserveNotification(errors.New("down"))
	if got := testutil.ToFloat64(m.Notifications.WithLabelValues("sent")); got != 1 {
		t.Errorf("sent = %v", got)
	}
	if got := testutil.ToFloat64(m.Notifications.WithLabelValues("error")); got != 1 {
		t.Errorf("error = %v", got)
	}
}

func TestDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
