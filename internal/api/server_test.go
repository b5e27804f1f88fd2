package api

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/statusled/internal/api/models"
	"github.com/smazurov/statusled/internal/control"
	"github.com/smazurov/statusled/internal/events"
	"github.com/smazurov/statusled/internal/indicator"
)

type fakeRates struct {
	mu      sync.Mutex
	rate    indicator.Rate
	sources []control.Source
}

func (f *fakeRates) Current() indicator.Rate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rate
}

func (f *fakeRates) Set(rate indicator.Rate, source control.Source) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := f.rate != rate
	f.rate = rate
	f.sources = append(f.sources, source)
	return changed
}

func newTestServer(t *testing.T, opts *Options) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, auth bool) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth("admin", "secret")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func authOptions() *Options {
	return &Options{AuthUsername: "admin", AuthPassword: "secret"}
}

func TestHealthNoAuth(t *testing.T) {
	ts := newTestServer(t, authOptions())

	resp := do(t, http.MethodGet, ts.URL+"/api/health", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := decode[models.HealthData](t, resp); body.Status != "ok" {
		t.Errorf("health = %+v", body)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/version", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("version status = %d, want 200", resp.StatusCode)
	}
}

func TestIndicatorsRequireAuth(t *testing.T) {
	opts := authOptions()
	opts.Tracker = NewStateTracker([]IndicatorInfo{{Slot: 0, Output: "led3", Kind: "network"}})
	ts := newTestServer(t, opts)

	resp := do(t, http.MethodGet, ts.URL+"/api/indicators", "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without auth = %d, want 401", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/indicators", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status with auth = %d, want 200", resp.StatusCode)
	}
	body := decode[models.IndicatorListData](t, resp)
	if body.Count != 1 || body.Indicators[0].Output != "led3" {
		t.Errorf("indicators = %+v", body)
	}
}

func TestIndicatorsReflectEvents(t *testing.T) {
	tracker := NewStateTracker([]IndicatorInfo{
		{Slot: 1, Output: "led2", Kind: "cpu"},
		{Slot: 0, Output: "led3", Kind: "network"},
	})
	tracker.Observe(events.NetworkPatternEvent{Output: "led3", Physical: true, Slave: true, Limit: 2, Flash: "double"})
	tracker.Observe(events.CPULoadEvent{Output: "led2", Usage: 55})
	tracker.Observe(events.OutputFaultEvent{Output: "led2", Failing: true, Error: "boom"})
	tracker.Observe(events.CPULoadEvent{Output: "unknown", Usage: 1})

	ts := newTestServer(t, &Options{Tracker: tracker})
	body := decode[models.IndicatorListData](t, do(t, http.MethodGet, ts.URL+"/api/indicators", "", false))

	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	network, cpu := body.Indicators[0], body.Indicators[1]
	if network.Slot != 0 || network.Network == nil || network.Network.Flash != "double" || !network.Network.Slave {
		t.Errorf("network indicator = %+v", network)
	}
	if cpu.CPUUsage == nil || *cpu.CPUUsage != 55 || !cpu.Failing || cpu.Error != "boom" {
		t.Errorf("cpu indicator = %+v", cpu)
	}
}

func TestInterfaces(t *testing.T) {
	tracker := NewStateTracker(nil)
	tracker.Observe(events.InterfaceChangedEvent{Interface: "ppp0", Current: "present,up", Present: true, Up: true})
	tracker.Observe(events.InterfaceChangedEvent{Interface: "eth2", Current: "present,up,link", Present: true, Up: true, Link: true})

	ts := newTestServer(t, &Options{Tracker: tracker})
	body := decode[models.InterfaceListData](t, do(t, http.MethodGet, ts.URL+"/api/interfaces", "", false))

	if body.Count != 2 || body.Interfaces[0].Name != "eth2" || !body.Interfaces[0].Link {
		t.Errorf("interfaces = %+v", body)
	}
}

func TestOutputs(t *testing.T) {
	ts := newTestServer(t, &Options{Driver: "alix", Outputs: []string{"led1", "led2", "led3"}})
	body := decode[models.OutputListData](t, do(t, http.MethodGet, ts.URL+"/api/outputs", "", false))
	if body.Driver != "alix" || len(body.Outputs) != 3 {
		t.Errorf("outputs = %+v", body)
	}
}

func TestHeartbeatRate(t *testing.T) {
	rates := &fakeRates{}
	ts := newTestServer(t, &Options{Rates: rates})

	resp := do(t, http.MethodPut, ts.URL+"/api/heartbeat/rate", `{"rate":"fast"}`, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", resp.StatusCode)
	}
	if body := decode[models.HeartbeatRateData](t, resp); body.Rate != "fast" {
		t.Errorf("PUT response = %+v", body)
	}
	if rates.Current() != indicator.RateFast || rates.sources[0] != control.SourceAPI {
		t.Errorf("rate = %v, sources = %v", rates.Current(), rates.sources)
	}

	body := decode[models.HeartbeatRateData](t, do(t, http.MethodGet, ts.URL+"/api/heartbeat/rate", "", false))
	if body.Rate != "fast" {
		t.Errorf("GET rate = %q, want fast", body.Rate)
	}

	resp = do(t, http.MethodPut, ts.URL+"/api/heartbeat/rate", `{"rate":"medium"}`, false)
	if resp.StatusCode < 400 || resp.StatusCode >= 500 {
		t.Errorf("invalid rate status = %d, want 4xx", resp.StatusCode)
	}
	if rates.Current() != indicator.RateFast {
		t.Error("invalid request changed the rate")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "statusled_up 1\n")
	})
	ts := newTestServer(t, &Options{PrometheusHandler: metricsHandler})

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "", false)
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "statusled_up") {
		t.Errorf("metrics = %d %q", resp.StatusCode, data)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &Options{CORSOrigin: "https://dash.example"})
	resp := do(t, http.MethodOptions, ts.URL+"/api/heartbeat/rate", "", false)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestSSEStream(t *testing.T) {
	bus := events.New()
	opts := authOptions()
	opts.Bus = bus
	opts.Rates = &fakeRates{rate: indicator.RateSlow}
	ts := newTestServer(t, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds := base64.StdEncoding.EncodeToString([]byte("admin:secret"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events?auth="+creds, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data:") {
				lines <- line
			}
		}
		close(lines)
	}()

	next := func() string {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed")
			}
			return line
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for SSE data")
		}
		return ""
	}

	if first := next(); !strings.Contains(first, `"source":"snapshot"`) {
		t.Errorf("first event = %s, want rate snapshot", first)
	}

	bus.Publish(events.NetworkPatternEvent{Output: "led3", Limit: 1, Flash: "none"})
	if got := next(); !strings.Contains(got, `"output":"led3"`) {
		t.Errorf("event = %s, want network pattern for led3", got)
	}
}

func TestServeShutdown(t *testing.T) {
	srv := NewServer(&Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestCredentials(t *testing.T) {
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	tests := []struct {
		name     string
		header   string
		query    string
		user     string
		pass     string
		wantFail bool
	}{
		{"header", "Basic " + enc("a:b"), "", "a", "b", false},
		{"query", "", enc("a:b:c"), "a", "b:c", false},
		{"header wins", "Basic " + enc("x:y"), enc("a:b"), "x", "y", false},
		{"none", "", "", "", "", true},
		{"bearer", "Bearer token", "", "", "", true},
		{"not base64", "Basic ***", "", "", "", true},
		{"no colon", "Basic " + enc("ab"), "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, pass, err := credentials(tt.header, tt.query)
			if (err != nil) != tt.wantFail {
				t.Fatalf("credentials() error = %v", err)
			}
			if user != tt.user || pass != tt.pass {
				t.Errorf("credentials() = %q, %q", user, pass)
			}
		})
	}
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		method string
		path   string
		status int
		want   slog.Level
	}{
		{http.MethodGet, "/api/health", 200, slog.LevelDebug},
		{http.MethodGet, "/api/health", 500, slog.LevelError},
		{http.MethodPut, "/api/heartbeat/rate", 200, slog.LevelInfo},
		{http.MethodPut, "/api/heartbeat/rate", 422, slog.LevelWarn},
		{http.MethodOptions, "/api/indicators", 204, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := requestLevel(tt.method, tt.path, tt.status); got != tt.want {
			t.Errorf("requestLevel(%s %s %d) = %v, want %v", tt.method, tt.path, tt.status, got, tt.want)
		}
	}
}
