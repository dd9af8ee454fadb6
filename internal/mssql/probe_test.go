package mssql

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/config"
	"github.com/upskilling-lab/mcp-toolserver/internal/sqlconfig"
)

// listenTCP はテスト用のリスナーを起動し、"host,port" 形式のサーバ名を返す
func listenTCP(t *testing.T) (net.Listener, string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return listener, fmt.Sprintf("127.0.0.1,%d", port)
}

func TestProbeTCP_Reachable(t *testing.T) {
	listener, server := listenTCP(t)
	defer listener.Close()

	probe := ProbeTCP(context.Background(), server, 3*time.Second)

	if !probe.Reachable {
		t.Fatalf("expected reachable, got error: %v", probe.Err)
	}
	if probe.Err != nil {
		t.Errorf("unexpected error: %v", probe.Err)
	}
	if probe.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", probe.Host)
	}
	if probe.Elapsed < 0 {
		t.Error("expected non-negative elapsed time")
	}
}

func TestProbeTCP_Unreachable(t *testing.T) {
	// リスナーを閉じたポートへの接続は拒否される
	listener, server := listenTCP(t)
	listener.Close()

	probe := ProbeTCP(context.Background(), server, 3*time.Second)

	if probe.Reachable {
		t.Fatal("expected unreachable")
	}
	if probe.Err == nil {
		t.Error("expected connection error")
	}
}

func TestProbeTCP_DefaultPort(t *testing.T) {
	probe := ProbeTCP(context.Background(), "sql.example.com", time.Millisecond)
	if probe.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, probe.Port)
	}
}

func TestProber(t *testing.T) {
	listener, server := listenTCP(t)
	defer listener.Close()

	store, err := sqlconfig.NewStore(config.SQLConfig{
		Active: "probe_target",
		Profiles: []config.SQLProfile{{
			Name:     "probe_target",
			Server:   server,
			Database: "TestDB",
			Auth:     "SqlPassword",
			Username: "sa",
		}},
	})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	prober := NewProber(store, 20*time.Millisecond)
	if prober.State().Status != StatusUnknown {
		t.Errorf("expected initial status unknown, got %s", prober.State().Status)
	}

	prober.Start(context.Background())
	defer prober.Stop()

	// 最初の観測が記録されるまで待つ
	deadline := time.After(3 * time.Second)
	for prober.State().Status == StatusUnknown {
		select {
		case <-deadline:
			t.Fatal("prober never recorded an observation")
		case <-time.After(10 * time.Millisecond):
		}
	}

	state := prober.State()
	if state.Status != StatusReachable {
		t.Errorf("expected reachable, got %s", state.Status)
	}
	if state.Profile != "probe_target" {
		t.Errorf("expected profile probe_target, got %s", state.Profile)
	}
	if state.CheckedAt.IsZero() {
		t.Error("expected checked_at to be set")
	}
}
