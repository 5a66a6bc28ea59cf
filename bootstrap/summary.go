package bootstrap

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/whisper-mcp/component"
	"github.com/kbukum/whisper-mcp/logger"
)

// RouteInfo describes a mounted HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// ClientInfo describes an external dependency the service calls out to.
type ClientInfo struct {
	Name   string
	Target string
	Type   string // "http", "exec"
}

// Summary collects what the process brought up so startup can be reported
// as one structured log line.
type Summary struct {
	mu              sync.Mutex
	serviceName     string
	version         string
	startupDuration time.Duration
	routes          []RouteInfo
	clients         []ClientInfo
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.mu.Lock()
	s.startupDuration = d
	s.mu.Unlock()
}

// TrackRoute records a mounted route.
func (s *Summary) TrackRoute(method, path string) {
	s.mu.Lock()
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
	s.mu.Unlock()
}

// TrackClient records an outbound dependency.
func (s *Summary) TrackClient(name, target, clientType string) {
	s.mu.Lock()
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target, Type: clientType})
	s.mu.Unlock()
}

// Routes returns the tracked routes sorted by path then method.
func (s *Summary) Routes() []RouteInfo {
	s.mu.Lock()
	out := append([]RouteInfo(nil), s.routes...)
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Clients returns the tracked clients in registration order.
func (s *Summary) Clients() []ClientInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ClientInfo(nil), s.clients...)
}

// Log writes the startup summary: component health, routes and clients.
func (s *Summary) Log(ctx context.Context, reg *component.Registry, log *logger.Logger) {
	components := make([]string, 0)
	if reg != nil {
		for _, h := range reg.HealthAll(ctx) {
			components = append(components, h.Name+"="+string(h.Status))
		}
	}

	routes := make([]string, 0)
	for _, r := range s.Routes() {
		routes = append(routes, r.Method+" "+r.Path)
	}

	clients := make([]string, 0)
	for _, c := range s.Clients() {
		clients = append(clients, c.Name+"("+c.Type+")="+c.Target)
	}

	s.mu.Lock()
	d := s.startupDuration
	s.mu.Unlock()

	log.Info("Startup summary", map[string]interface{}{
		"service":    s.serviceName,
		"version":    s.version,
		"startup_ms": d.Milliseconds(),
		"components": strings.Join(components, ", "),
		"routes":     strings.Join(routes, ", "),
		"clients":    strings.Join(clients, ", "),
	})
}
