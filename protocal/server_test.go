package protocal

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"golang-logserver/configs"
	"golang-logserver/internal/domain"
	"golang-logserver/pkg/client"
)

func testConfig(t *testing.T, driver string) *configs.Config {
	t.Helper()
	return &configs.Config{
		App:    configs.App{Port: "0"},
		Server: configs.Server{PoolSize: 2, QueueSize: 8, Greeting: domain.DefaultGreeting},
		Store:  configs.Store{Driver: driver, Path: filepath.Join(t.TempDir(), "output.txt")},
		Admin:  configs.Admin{Enabled: true, Port: "0"},
	}
}

func loopback(addr net.Addr) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(addr.(*net.TCPAddr).Port))
}

// TestOpenLogStoreDrivers tests that every local driver opens a working store
func TestOpenLogStoreDrivers(t *testing.T) {
	for _, driver := range []string{"file", "memory", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			store, release, err := OpenLogStore(testConfig(t, driver))
			if err != nil {
				t.Fatalf("expected %s store to open, got %v", driver, err)
			}
			defer release()

			if err := store.Append("hello"); err != nil {
				t.Errorf("expected no error on Append, got %v", err)
			}
			content, err := store.ReadAll()
			if err != nil || content != "hello\n" {
				t.Errorf("expected %q, got %q (%v)", "hello\n", content, err)
			}
		})
	}
}

// TestOpenLogStoreUnknownDriver tests that an unknown driver is rejected
func TestOpenLogStoreUnknownDriver(t *testing.T) {
	if _, _, err := OpenLogStore(testConfig(t, "tape")); err == nil {
		t.Error("expected error for unknown driver, got nil")
	}
}

// TestServerEndToEnd tests one exchange over TCP followed by the admin API view of the log
func TestServerEndToEnd(t *testing.T) {
	cfg := testConfig(t, "file")
	store, release, err := OpenLogStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	srv := NewServer(cfg, store)
	if err := srv.Start(); err != nil {
		t.Fatalf("expected server to start, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reply, err := client.Exchange(ctx, loopback(srv.Addr()), "Message 1")
	if err != nil {
		t.Fatalf("expected exchange to succeed, got %v", err)
	}
	if reply.Content != domain.ContentLabel+"Message 1" {
		t.Errorf("expected %q, got %q", domain.ContentLabel+"Message 1", reply.Content)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/v1/api/log", loopback(srv.AdminAddr())))
	if err != nil {
		t.Fatalf("expected admin API to answer, got %v", err)
	}

	var body struct {
		Data struct {
			Lines []string `json:"lines"`
		} `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(body.Data.Lines) != 1 || body.Data.Lines[0] != "Message 1" {
		t.Errorf("expected [Message 1], got %q", body.Data.Lines)
	}

	if err := srv.Stop(ctx); err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}

// TestServerWithoutAdmin tests that the admin API stays off when disabled
func TestServerWithoutAdmin(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Admin.Enabled = false
	store, release, _ := OpenLogStore(cfg)
	defer release()

	srv := NewServer(cfg, store)
	if err := srv.Start(); err != nil {
		t.Fatalf("expected server to start, got %v", err)
	}
	if srv.AdminAddr() != nil {
		t.Errorf("expected no admin address, got %v", srv.AdminAddr())
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}

// TestServerStartAdminPortInUse tests that a failed admin bind stops the TCP service again
func TestServerStartAdminPortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer occupied.Close()

	cfg := testConfig(t, "memory")
	cfg.Admin.Port = strconv.Itoa(occupied.Addr().(*net.TCPAddr).Port)
	store, release, _ := OpenLogStore(cfg)
	defer release()

	srv := NewServer(cfg, store)
	if err := srv.Start(); err == nil {
		t.Fatal("expected error when the admin port is in use, got nil")
	}
	if !srv.pool.Stats().Closed {
		t.Error("expected worker pool closed after the failed start")
	}
	if _, err := client.Dial(loopback(srv.Addr()), 200*time.Millisecond); err == nil {
		t.Error("expected TCP service to be stopped after the failed start")
	}
}
