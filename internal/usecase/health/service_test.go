package health

import (
	"context"
	"errors"
	"testing"
)

type pinger struct {
	err error
}

func (p pinger) Ping(_ context.Context) error { return p.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(pinger{}, pinger{}, pinger{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, report.Status)
	}
	for _, name := range []string{"database", "cache", "storage"} {
		if report.Checks[name] != CheckOK {
			t.Errorf("expected %s check to pass, got %q", name, report.Checks[name])
		}
	}
}

func TestCheck_DegradedOnAnyFailure(t *testing.T) {
	svc := New(pinger{}, pinger{err: errors.New("redis: timeout")}, pinger{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, report.Status)
	}
	if report.Checks["cache"] != CheckError {
		t.Errorf("expected cache check to fail, got %q", report.Checks["cache"])
	}
	if report.Checks["database"] != CheckOK {
		t.Errorf("expected database check to pass, got %q", report.Checks["database"])
	}
}

func TestCheck_OptionalComponentsSkipped(t *testing.T) {
	svc := New(pinger{}, nil, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, report.Status)
	}
	if len(report.Checks) != 1 {
		t.Errorf("expected only the database check, got %v", report.Checks)
	}
}
