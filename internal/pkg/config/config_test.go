package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Vodeneev/leonspider/internal/parser/seed"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
leon:
  base_url: http://localhost:9999
  timeout: 10s
retry:
  max_attempts: 5
  base_delay: 250ms
harvest:
  sport_pages: [football, hockey]
  workers: 2
report:
  file_path: /tmp/leon.txt
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Leon.BaseURL != "http://localhost:9999" || cfg.Leon.Timeout != 10*time.Second {
		t.Errorf("leon = %+v", cfg.Leon)
	}
	if cfg.Leon.EventsPath != "/api-2/betline/events/all" {
		t.Errorf("events_path default lost: %q", cfg.Leon.EventsPath)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.BaseDelay != 250*time.Millisecond {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if diff := cmp.Diff([]string{"football", "hockey"}, cfg.Harvest.SportPages); diff != "" {
		t.Errorf("sport pages (-want +got):\n%s", diff)
	}
	if cfg.Harvest.Workers != 2 || cfg.Harvest.MatchesPerLeague != 2 {
		t.Errorf("harvest = %+v", cfg.Harvest)
	}
	if cfg.Report.FilePath != "/tmp/leon.txt" {
		t.Errorf("report = %+v", cfg.Report)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Harvest.Workers != 3 || cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestDefaultSportPagesFollowSeedRegistry(t *testing.T) {
	cfg := Default()
	if diff := cmp.Diff(seed.DefaultSports, cfg.Harvest.SportPages); diff != "" {
		t.Errorf("sport pages (-want +got):\n%s", diff)
	}
	cfg.Harvest.SportPages[0] = "hockey"
	if seed.DefaultSports[0] != "football" {
		t.Errorf("config aliases the seed registry: %v", seed.DefaultSports)
	}
}

func TestLoadTelegramTokenFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "secret")
	path := writeConfig(t, "telegram:\n  enabled: true\n  chat_id: 42\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "secret" {
		t.Errorf("token = %q", cfg.Telegram.BotToken)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero workers", "harvest:\n  workers: 0\n", "harvest.workers"},
		{"no pages", "harvest:\n  sport_pages: []\n", "harvest.sport_pages"},
		{"zero attempts", "retry:\n  max_attempts: 0\n", "retry.max_attempts"},
		{"telegram without token", "telegram:\n  enabled: true\n", "telegram.bot_token"},
		{"bad yaml", "leon: [", "failed to parse"},
	}
	for _, tt := range tests {
		_, err := Load(writeConfig(t, tt.content))
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
