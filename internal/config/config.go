package config

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "gopkg.in/yaml.v3"
)

const (
    // SpringURL is the legacy fixed-schema sheet (Spring 2024/2025).
    SpringURL = "https://docs.google.com/spreadsheets/d/1EL31srR2r_CXmSXEjGprdWCH3HByT5HLGFlsEhImBBM/gviz/tq?tqx=out:csv&sheet=2013"
    // FallURL is the stage-triple sheet (Fall 2025/2026).
    FallURL = "https://docs.google.com/spreadsheets/d/1kxROgR7P1qatzrabY5NP2wPmWfiib8qh5jXoNA92Cxc/export?format=csv&gid=426592693"

    FormatCSV  = "csv"
    FormatXLSX = "xlsx"
)

type UserConfig struct {
    Username     string `yaml:"username"`
    PasswordHash string `yaml:"passwordHash"` // bcrypt hash
}

// SourceConfig describes one spreadsheet export the dashboard can show.
type SourceConfig struct {
    Key    string `yaml:"key"`
    Label  string `yaml:"label"`
    URL    string `yaml:"url"`
    Format string `yaml:"format"`          // "csv" (default) | "xlsx"
    Sheet  string `yaml:"sheet,omitempty"` // xlsx only; first sheet when empty
}

type LoggingConfig struct {
    Level string `yaml:"level"`
}

type UIConfig struct {
    Title       string `yaml:"title"`
    Subtitle    string `yaml:"subtitle"`
    Footer      string `yaml:"footer"`
    About       string `yaml:"about"` // markdown
    ShowLoadLog bool   `yaml:"showLoadLog"`
    LoadLogMax  int    `yaml:"loadLogMax"`
}

type FetchConfig struct {
    TimeoutSeconds  int    `yaml:"timeoutSeconds"`
    RefreshSchedule string `yaml:"refreshSchedule"` // 5-field cron, empty disables
}

// ReadinessConfig is one school entry of the home page snapshot.
type ReadinessConfig struct {
    School string `yaml:"school"`
    Total  int    `yaml:"total"`
    Ready  int    `yaml:"ready"`
}

type Config struct {
    Listen    string            `yaml:"listen"`
    Users     []UserConfig      `yaml:"users"`
    Logging   LoggingConfig     `yaml:"logging"`
    UI        UIConfig          `yaml:"ui"`
    Fetch     FetchConfig       `yaml:"fetch"`
    Sources   []SourceConfig    `yaml:"sources"`
    Readiness []ReadinessConfig `yaml:"readiness"`
}

const defaultAbout = `The **HTU 2025–2028 Digital Plan** dashboard offers a comprehensive view of HTU's transition to **blended learning**.
It provides real-time insights into the progress of courses across all schools, tracking their development through the following key stages:

- **Planning**: course description, learning objectives and structure.
- **Design**: modules, blocks and lessons aligned with the learning objectives.
- **Production**: detailed content, video scripts, readings, assignments and quizzes.
- **Implementation**: the D-Learn Team builds the content into the authoring tool or LMS.
`

func Default() *Config {
    return &Config{
        Users:   []UserConfig{},
        Logging: LoggingConfig{Level: "info"},
        UI: UIConfig{
            Title:       "HTU",
            Subtitle:    "2025–2028 Digital Plan",
            Footer:      "Made By: The D. Learn Center at HTU",
            About:       defaultAbout,
            ShowLoadLog: true,
            LoadLogMax:  50,
        },
        Fetch: FetchConfig{TimeoutSeconds: 30},
        Sources: []SourceConfig{
            {Key: "spring-2024", Label: "Spring 2024/2025", URL: SpringURL, Format: FormatCSV},
            {Key: "fall-2025", Label: "Fall 2025/2026", URL: FallURL, Format: FormatCSV},
        },
        Readiness: []ReadinessConfig{
            {School: "SCI", Total: 35, Ready: 6},
            {School: "SET", Total: 69, Ready: 5},
            {School: "SBEE", Total: 30, Ready: 2},
            {School: "SSBS", Total: 32, Ready: 9},
        },
    }
}

// Load reads an optional YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
    cfg := Default()
    if path == "" {
        path = "config.yaml"
    }
    data, err := os.ReadFile(path)
    if err != nil {
        if errors.Is(err, os.ErrNotExist) {
            applyEnvOverrides(cfg)
            return cfg, nil
        }
        return nil, err
    }
    if err := yaml.Unmarshal(data, cfg); err != nil {
        return nil, fmt.Errorf("parse %s: %w", path, err)
    }
    applyEnvOverrides(cfg)
    for i := range cfg.Sources {
        if cfg.Sources[i].Format == "" {
            cfg.Sources[i].Format = FormatCSV
        }
    }
    return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
    if v := os.Getenv("COURSEBOARD_LOG_LEVEL"); v != "" {
        cfg.Logging.Level = v
    }
    if v := os.Getenv("COURSEBOARD_FETCH_TIMEOUT"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            cfg.Fetch.TimeoutSeconds = n
        }
    }
    if v, ok := os.LookupEnv("COURSEBOARD_REFRESH_SCHEDULE"); ok {
        cfg.Fetch.RefreshSchedule = v
    }
    if v := os.Getenv("COURSEBOARD_UI_SHOW_LOADLOG"); v != "" {
        switch strings.ToLower(v) {
        case "0", "false", "off", "no":
            cfg.UI.ShowLoadLog = false
        case "1", "true", "on", "yes":
            cfg.UI.ShowLoadLog = true
        }
    }
    if v := os.Getenv("COURSEBOARD_LOADLOG_MAX"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            cfg.UI.LoadLogMax = n
        }
    }
}

// Validate checks the source list; everything else has usable defaults.
func (c *Config) Validate() error {
    if len(c.Sources) == 0 {
        return errors.New("no sources configured")
    }
    seen := make(map[string]bool, len(c.Sources))
    for i, s := range c.Sources {
        if strings.TrimSpace(s.Key) == "" {
            return fmt.Errorf("source #%d: empty key", i+1)
        }
        if strings.ContainsAny(s.Key, "/?#") {
            return fmt.Errorf("source %q: key must not contain '/', '?' or '#'", s.Key)
        }
        if seen[s.Key] {
            return fmt.Errorf("source %q: duplicate key", s.Key)
        }
        seen[s.Key] = true
        if strings.TrimSpace(s.URL) == "" {
            return fmt.Errorf("source %q: empty url", s.Key)
        }
        switch s.Format {
        case "", FormatCSV, FormatXLSX:
        default:
            return fmt.Errorf("source %q: unsupported format %q", s.Key, s.Format)
        }
    }
    for _, r := range c.Readiness {
        if r.Total < 0 || r.Ready < 0 || r.Ready > r.Total {
            return fmt.Errorf("readiness %q: ready=%d total=%d out of range", r.School, r.Ready, r.Total)
        }
    }
    return nil
}

// FetchTimeout returns the HTTP timeout for sheet exports.
func (c *Config) FetchTimeout() time.Duration {
    if c.Fetch.TimeoutSeconds <= 0 {
        return 30 * time.Second
    }
    return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SourceByKey looks up a configured source.
func (c *Config) SourceByKey(key string) (SourceConfig, bool) {
    for _, s := range c.Sources {
        if s.Key == key {
            return s, true
        }
    }
    return SourceConfig{}, false
}
