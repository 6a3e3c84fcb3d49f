package log

import (
    "io"
    stdlog "log"
    "os"
    "strings"
)

type Level int

const (
    Debug Level = iota
    Info
    Warn
    Error
)

var current Level = Info

var std = stdlog.New(os.Stderr, "courseboard ", stdlog.LstdFlags)

func ParseLevel(s string) Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return Debug
    case "info", "":
        return Info
    case "warn", "warning":
        return Warn
    case "err", "error":
        return Error
    default:
        return Info
    }
}

func (l Level) String() string {
    switch l {
    case Debug:
        return "debug"
    case Warn:
        return "warn"
    case Error:
        return "error"
    default:
        return "info"
    }
}

func SetLevel(l Level) { current = l }

func CurrentLevel() Level { return current }

// SetOutput redirects all log lines, e.g. into a buffer in tests.
func SetOutput(w io.Writer) { std.SetOutput(w) }

func Enabled(l Level) bool { return current <= l }

func Debugf(format string, v ...any) {
    if Enabled(Debug) { std.Printf("[DEBUG] "+format, v...) }
}
func Infof(format string, v ...any)  { if Enabled(Info)  { std.Printf("[INFO] "+format, v...) } }
func Warnf(format string, v ...any)  { if Enabled(Warn)  { std.Printf("[WARN] "+format, v...) } }
func Errorf(format string, v ...any) { if Enabled(Error) { std.Printf("[ERROR] "+format, v...) } }

func InitFromEnvFallback(level string) {
    // COURSEBOARD_LOG_LEVEL wins over the config file
    if env := os.Getenv("COURSEBOARD_LOG_LEVEL"); env != "" {
        level = env
    }
    SetLevel(ParseLevel(level))
}
