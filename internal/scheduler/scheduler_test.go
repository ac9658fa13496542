package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func noop(ctx context.Context) error { return nil }

func TestEmptyScheduleIsDisabled(t *testing.T) {
	s := New("", noop, zaptest.NewLogger(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if s.IsRunning() {
		t.Error("scheduler without schedule should not be running")
	}
}

func TestValidSchedule(t *testing.T) {
	s := New("@every 1h", noop, zaptest.NewLogger(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if !s.IsRunning() {
		t.Error("scheduler should have a registered job")
	}
}

func TestInvalidSchedule(t *testing.T) {
	s := New("not a schedule", noop, zaptest.NewLogger(t))
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestMissingJob(t *testing.T) {
	s := New("@daily", nil, zaptest.NewLogger(t))
	if err := s.Start(); err == nil {
		t.Fatal("expected an error when no job is set")
	}
}

func TestStopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{}, 1)
	job := func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return ctx.Err()
	}

	s := New("@every 1s", job, zaptest.NewLogger(t))
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		s.Stop()
		t.Fatal("job was never triggered")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not interrupt the running job")
	}
}
