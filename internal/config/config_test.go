package config

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"
)

func TestDefaultHasReasonableValues(t *testing.T) {
    cfg := Default()
    if len(cfg.Sources) != 2 { t.Fatalf("expected both hardcoded sources, got %d", len(cfg.Sources)) }
    if cfg.Sources[0].URL != SpringURL || cfg.Sources[1].URL != FallURL { t.Fatalf("unexpected default urls: %+v", cfg.Sources) }
    if cfg.Logging.Level != "info" { t.Fatalf("expected default log level info, got %q", cfg.Logging.Level) }
    if !cfg.UI.ShowLoadLog { t.Fatalf("expected ShowLoadLog default true") }
    if cfg.UI.LoadLogMax <= 0 { t.Fatalf("expected positive LoadLogMax") }
    if cfg.FetchTimeout() != 30*time.Second { t.Fatalf("expected 30s fetch timeout, got %s", cfg.FetchTimeout()) }
    if len(cfg.Readiness) != 4 || cfg.Readiness[3].School != "SSBS" || cfg.Readiness[3].Ready != 9 { t.Fatalf("default readiness snapshot: %+v", cfg.Readiness) }
    if err := cfg.Validate(); err != nil { t.Fatalf("defaults must validate: %v", err) }
}

func TestLoadEnvOverrides(t *testing.T) {
    t.Setenv("COURSEBOARD_LOG_LEVEL", "debug")
    t.Setenv("COURSEBOARD_FETCH_TIMEOUT", "5")
    t.Setenv("COURSEBOARD_REFRESH_SCHEDULE", "*/15 * * * *")
    t.Setenv("COURSEBOARD_UI_SHOW_LOADLOG", "0")
    t.Setenv("COURSEBOARD_LOADLOG_MAX", "7")

    cfg, err := Load("__does_not_exist.yaml")
    if err != nil { t.Fatalf("load error: %v", err) }
    if cfg.Logging.Level != "debug" { t.Fatalf("log level env override failed: %q", cfg.Logging.Level) }
    if cfg.FetchTimeout() != 5*time.Second { t.Fatalf("fetch timeout env override failed: %s", cfg.FetchTimeout()) }
    if cfg.Fetch.RefreshSchedule != "*/15 * * * *" { t.Fatalf("refresh schedule env override failed: %q", cfg.Fetch.RefreshSchedule) }
    if cfg.UI.ShowLoadLog { t.Fatalf("UI.ShowLoadLog expected false via env") }
    if cfg.UI.LoadLogMax != 7 { t.Fatalf("UI.LoadLogMax expected 7 via env, got %d", cfg.UI.LoadLogMax) }
}

func TestLoadFromFile(t *testing.T) {
    dir := t.TempDir()
    yaml := []byte(`listen: '127.0.0.1:9000'
logging:
  level: 'warn'
sources:
  - key: fall
    label: 'Fall'
    url: 'https://example.test/fall.csv'
  - key: book
    label: 'Workbook'
    url: 'https://example.test/book.xlsx'
    format: xlsx
    sheet: 'Courses'
readiness:
  - {school: SCI, total: 35, ready: 6}
`)
    path := filepath.Join(dir, "config.yaml")
    if err := os.WriteFile(path, yaml, 0644); err != nil { t.Fatalf("write: %v", err) }
    cfg, err := Load(path)
    if err != nil { t.Fatalf("load: %v", err) }
    if cfg.Listen != "127.0.0.1:9000" { t.Fatalf("listen: %q", cfg.Listen) }
    if cfg.Logging.Level != "warn" { t.Fatalf("file load failed for logging.level: %q", cfg.Logging.Level) }
    if len(cfg.Sources) != 2 { t.Fatalf("sources from file must replace defaults, got %d", len(cfg.Sources)) }
    if cfg.Sources[0].Format != FormatCSV { t.Fatalf("format must default to csv, got %q", cfg.Sources[0].Format) }
    src, ok := cfg.SourceByKey("book")
    if !ok || src.Format != FormatXLSX || src.Sheet != "Courses" { t.Fatalf("xlsx source not loaded: %+v", src) }
    if len(cfg.Readiness) != 1 || cfg.Readiness[0].Ready != 6 { t.Fatalf("readiness not loaded: %+v", cfg.Readiness) }
    if cfg.UI.Title != "HTU" { t.Fatalf("unset ui fields must keep defaults, got %q", cfg.UI.Title) }
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte("sources: [\n"), 0644); err != nil { t.Fatal(err) }
    if _, err := Load(path); err == nil { t.Fatalf("expected parse error") }
}

func TestValidate(t *testing.T) {
    cases := []struct {
        name string
        mod  func(*Config)
        want string
    }{
        {"no sources", func(c *Config) { c.Sources = nil }, "no sources"},
        {"empty key", func(c *Config) { c.Sources[0].Key = " " }, "empty key"},
        {"slash in key", func(c *Config) { c.Sources[0].Key = "a/b" }, "must not contain"},
        {"duplicate key", func(c *Config) { c.Sources[1].Key = c.Sources[0].Key }, "duplicate key"},
        {"empty url", func(c *Config) { c.Sources[0].URL = "" }, "empty url"},
        {"bad format", func(c *Config) { c.Sources[0].Format = "ods" }, "unsupported format"},
        {"readiness", func(c *Config) { c.Readiness = []ReadinessConfig{{School: "SCI", Total: 2, Ready: 3}} }, "out of range"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            cfg := Default()
            tc.mod(cfg)
            err := cfg.Validate()
            if err == nil || !strings.Contains(err.Error(), tc.want) {
                t.Fatalf("expected error containing %q, got %v", tc.want, err)
            }
        })
    }
}

func TestExampleConfigLoads(t *testing.T) {
    t.Setenv("COURSEBOARD_REFRESH_SCHEDULE", "")
    os.Unsetenv("COURSEBOARD_REFRESH_SCHEDULE")
    cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
    if err != nil { t.Fatalf("load: %v", err) }
    if err := cfg.Validate(); err != nil { t.Fatalf("validate: %v", err) }
    if len(cfg.Readiness) != 4 || cfg.Readiness[0].School != "SCI" || cfg.Readiness[0].Total != 35 { t.Fatalf("readiness: %+v", cfg.Readiness) }
    if cfg.Sources[0].URL != SpringURL || cfg.Sources[1].URL != FallURL { t.Fatalf("sources: %+v", cfg.Sources) }
    if cfg.Fetch.RefreshSchedule != "0 * * * *" { t.Fatalf("schedule: %q", cfg.Fetch.RefreshSchedule) }
}
