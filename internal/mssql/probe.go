package mssql

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
)

// ProbeStatus is the reachability state of a SQL Server host
type ProbeStatus string

const (
	StatusUnknown     ProbeStatus = "unknown"
	StatusReachable   ProbeStatus = "reachable"
	StatusUnreachable ProbeStatus = "unreachable"
)

// Probe is the outcome of a single TCP reachability check
type Probe struct {
	Host      string
	Port      int
	Reachable bool
	Elapsed   time.Duration
	Err       error
}

// ProbeTCP dials the server's SQL port once. It performs no authentication;
// it only answers whether the host accepts TCP connections.
func ProbeTCP(ctx context.Context, server string, timeout time.Duration) Probe {
	host, port := SplitServerPort(server)
	if port == 0 {
		port = DefaultPort
	}

	probe := Probe{Host: host, Port: port}

	dialer := net.Dialer{Timeout: timeout}
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	probe.Elapsed = time.Since(start)

	if err != nil {
		probe.Err = err
		return probe
	}

	probe.Reachable = true
	if err := conn.Close(); err != nil {
		slog.Debug("Failed to close probe connection", "host", host, "error", err)
	}
	return probe
}

// ProberState is a snapshot of the background prober's last observation
type ProberState struct {
	Status    ProbeStatus `json:"status"`
	Profile   string      `json:"profile"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Prober periodically checks TCP reachability of the active profile's
// server and keeps the last observation for the health endpoint.
type Prober struct {
	store    *sqlconfig.Store
	interval time.Duration

	mu    sync.RWMutex
	state ProberState

	cancel context.CancelFunc
	done   chan struct{}
}

// NewProber creates a Prober checking at the given interval
func NewProber(store *sqlconfig.Store, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Prober{
		store:    store,
		interval: interval,
		state:    ProberState{Status: StatusUnknown},
	}
}

// Start launches the background probe loop
func (p *Prober) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	// Probe timeout: interval/2, min 3s, max 10s, so a slow network never
	// stalls the loop past its own period
	timeout := p.interval / 2
	if timeout < 3*time.Second {
		timeout = 3 * time.Second
	}
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Debug("Reachability prober stopped")
				return
			case <-ticker.C:
				profile := p.store.Active()
				probe := ProbeTCP(ctx, profile.Server, timeout)

				status := StatusReachable
				if !probe.Reachable {
					status = StatusUnreachable
					slog.Warn("SQL Server unreachable",
						"profile", profile.Name,
						"host", probe.Host,
						"port", probe.Port,
						"error", probe.Err)
				}

				p.mu.Lock()
				previous := p.state.Status
				p.state = ProberState{
					Status:    status,
					Profile:   profile.Name,
					CheckedAt: time.Now(),
				}
				p.mu.Unlock()

				if previous == StatusUnreachable && status == StatusReachable {
					slog.Info("SQL Server reachability recovered", "profile", profile.Name)
				}
			}
		}
	}()
}

// Stop terminates the probe loop and waits for it to exit
func (p *Prober) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	select {
	case <-p.done:
	case <-time.After(5 * time.Second):
		slog.Warn("Timed out waiting for prober to exit")
	}
}

// State returns the last observation
func (p *Prober) State() ProberState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}
