package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/statusled/internal/events"
)

// sseBuffer is the per-connection backlog; events beyond it are dropped.
const sseBuffer = 32

// eventTypes maps SSE event names to payloads.
var eventTypes = map[string]any{
	"network-pattern":   events.NetworkPatternEvent{},
	"interface-changed": events.InterfaceChangedEvent{},
	"cpu-load":          events.CPULoadEvent{},
	"disk-pulse":        events.DiskPulseEvent{},
	"heartbeat-rate":    events.HeartbeatRateEvent{},
	"output-fault":      events.OutputFaultEvent{},
}

func (s *Server) registerSSERoutes() {
	if s.options.Bus == nil {
		s.logger.Debug("No event bus, skipping SSE route")
		return
	}
	bus := s.options.Bus

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of indicator observations, interface changes, rate changes and output faults",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, eventTypes, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		stream := events.NewStream(bus, sseBuffer)
		defer func() {
			stream.Close()
			if n := stream.Dropped(); n > 0 {
				s.logger.Debug("SSE client fell behind", "dropped", n)
			}
		}()

		// current rate first, so clients start from a known state
		if s.options.Rates != nil {
			if err := send.Data(events.HeartbeatRateEvent{
				Rate:      s.options.Rates.Current().String(),
				Source:    "snapshot",
				Timestamp: time.Now().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-stream.C():
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
