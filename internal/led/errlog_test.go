package led

import (
	"errors"
	"testing"
)

type flakyOutput struct {
	err   error
	calls int
}

func (f *flakyOutput) Name() string { return "led3" }

func (f *flakyOutput) Set(bool) error {
	f.calls++
	return f.err
}

func TestWithErrorLog_ReportsTransitions(t *testing.T) {
	var faults []error
	inner := &flakyOutput{}
	out := WithErrorLog(inner, nil, func(name string, err error) {
		if name != "led3" {
			t.Errorf("fault name = %q", name)
		}
		faults = append(faults, err)
	})

	writeErr := errors.New("i/o error")

	_ = out.Set(true) // ok, no report
	inner.err = writeErr
	for range 5 {
		if err := out.Set(true); !errors.Is(err, writeErr) {
			t.Fatalf("Set() error = %v, want passthrough", err)
		}
	}
	inner.err = nil
	_ = out.Set(false)
	_ = out.Set(false)

	if inner.calls != 8 {
		t.Errorf("inner Set called %d times, want 8", inner.calls)
	}
	if len(faults) != 2 {
		t.Fatalf("fault callbacks = %v, want failure then recovery", faults)
	}
	if !errors.Is(faults[0], writeErr) || faults[1] != nil {
		t.Errorf("faults = %v", faults)
	}
}
