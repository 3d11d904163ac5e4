package cmd

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
)

func TestNewStoreBackends(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     *StoreConfig
		wantErr bool
	}{
		{name: "nil defaults to memory", cfg: nil},
		{name: "memory", cfg: &StoreConfig{Backend: "Memory", CollectionPrefix: "test_"}},
		{name: "redis", cfg: &StoreConfig{Backend: "redis", Redis: &RedisConfig{Address: srv.Addr()}}},
		{name: "postgres without dsn", cfg: &StoreConfig{Backend: "postgres"}, wantErr: true},
		{name: "unknown", cfg: &StoreConfig{Backend: "firestore"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := newStore(ctx, tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %+v", tt.cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer store.Close()

			if err := store.Put(ctx, "users", "u1", map[string]any{"user_id": "u1"}); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := store.Get(ctx, "users", "u1"); err != nil {
				t.Fatalf("get: %v", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"Go, SQL", " ", "Docker"})
	want := []string{"Go", "SQL", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDefaultsDecode(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg *Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.Store.Backend != "memory" {
		t.Fatalf("expected memory backend, got %q", cfg.Store.Backend)
	}
	if cfg.Cache.TTL.Hours() != 720 {
		t.Fatalf("expected 720h ttl, got %s", cfg.Cache.TTL)
	}
	if cfg.AI.Gemini.Timeout.Seconds() != 60 {
		t.Fatalf("expected 60s timeout, got %s", cfg.AI.Gemini.Timeout)
	}
	if cfg.Advisor.StrictMatching {
		t.Fatal("strict matching must be off by default")
	}
}
