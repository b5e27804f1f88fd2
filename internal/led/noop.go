package led

import "log/slog"

// noop implements Controller for systems without LED support. Every name
// resolves to an output that only logs.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	if logger == nil {
		logger = slog.Default()
	}
	return &noop{
		logger: logger,
	}
}

func (n *noop) Output(name string) (Output, error) {
	return &noopOutput{name: name, logger: n.logger}, nil
}

// Available returns an empty list since no LEDs are available
func (n *noop) Available() []string {
	return []string{}
}

func (n *noop) Close() error { return nil }

type noopOutput struct {
	name   string
	logger *slog.Logger
}

func (o *noopOutput) Name() string { return o.name }

// Set logs the request but performs no actual LED control
func (o *noopOutput) Set(on bool) error {
	o.logger.Debug("LED control not available (no-op)", "output", o.name, "on", on)
	return nil
}
