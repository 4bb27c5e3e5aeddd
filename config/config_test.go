package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("SERVICE_MODE", "")
	t.Setenv("STORE_URL", "")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_TIMEOUT", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Mode != ModeAll || !cfg.ServesCalendar() || !cfg.ServesStore() {
		t.Fatalf("expected all mode, got %q", cfg.Mode)
	}
	if cfg.StoreURL != "http://127.0.0.1:9090" {
		t.Fatalf("expected loopback store url, got %s", cfg.StoreURL)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.StoreTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_Modes(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		storeURL string
		wantErr  bool
	}{
		{name: "calendar needs store url", mode: "calendar", wantErr: true},
		{name: "calendar with store url", mode: "calendar", storeURL: "http://store:8080"},
		{name: "store alone", mode: "STORE"},
		{name: "unknown mode", mode: "worker", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SERVICE_MODE", tt.mode)
			t.Setenv("STORE_URL", tt.storeURL)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "postgres://app:pw@db:5432/hotel", want: "postgres"},
		{raw: "postgresql://app:pw@db/hotel", want: "postgres"},
		{raw: "mysql://root:pw@db:3307/hotel", want: "mysql"},
		{raw: "root:pw@tcp(db:3306)/hotel", want: "mysql"},
		{raw: "", want: "mysql"},
	}
	for _, tt := range tests {
		d, err := dialectorFor(tt.raw)
		if err != nil {
			t.Fatalf("%q: %v", tt.raw, err)
		}
		if d.Name() != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.raw, tt.want, d.Name())
		}
	}
}

func TestMysqlDSNFromURL(t *testing.T) {
	t.Parallel()

	dsn, err := mysqlDSNFromURL("mysql://root:pw@db:3307/hotel")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "root:pw@tcp(db:3307)/hotel?charset=utf8mb4&loc=UTC&parseTime=True"
	if dsn != want {
		t.Fatalf("expected %s, got %s", want, dsn)
	}

	if _, err := mysqlDSNFromURL("mysql://root:pw@db:3307/"); err == nil {
		t.Fatalf("expected missing database error")
	}
}
