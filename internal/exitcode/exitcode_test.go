package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestFrom(t *testing.T) {
	base := errors.New("permission denied")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, OK},
		{"plain", base, Runtime},
		{"coded", New(OutputAccess, "open /dev/port", base), OutputAccess},
		{"wrapped", fmt.Errorf("startup: %w", New(StatusChannel, "no /proc", nil)), StatusChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := From(tt.err); got != tt.want {
				t.Errorf("From() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := New(Config, "bad config", base)

	if !errors.Is(err, base) {
		t.Error("errors.Is should find the cause")
	}
	if err.Error() != "bad config: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if New(Config, "bad config", nil).Error() != "bad config" {
		t.Error("Error() without cause should be the message")
	}
}
