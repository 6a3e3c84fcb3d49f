package server

import (
    "encoding/json"
    "net/http"
    "strings"

    applog "github.com/htu-dlearn/courseboard/internal/log"
)

// splitSourcePath splits "key" or "key/view" (already stripped of the
// route prefix). A trailing slash is ignored.
func splitSourcePath(rest string) (key, view string, ok bool) {
    rest = strings.Trim(rest, "/")
    if rest == "" {
        return "", "", false
    }
    parts := strings.Split(rest, "/")
    if len(parts) > 2 {
        return "", "", false
    }
    key = parts[0]
    if len(parts) == 2 {
        view = parts[1]
    }
    return key, view, true
}

// activeFromPath names the nav entry for path: "home", "<key>:overview"
// or "<key>:schools".
func activeFromPath(path string) string {
    if i := strings.IndexByte(path, '?'); i >= 0 {
        path = path[:i]
    }
    if path == "/" || path == "" {
        return "home"
    }
    if rest, ok := strings.CutPrefix(path, "/sources/"); ok {
        key, view, ok := splitSourcePath(rest)
        if !ok {
            return ""
        }
        if view == "" {
            return key + ":overview"
        }
        return key + ":" + view
    }
    return ""
}

// pick returns want when it is one of options, else the first option.
// No options means an empty selection.
func pick(want string, options []string) string {
    for _, o := range options {
        if o == want {
            return o
        }
    }
    if len(options) > 0 {
        return options[0]
    }
    return ""
}

// safeReturn only allows local redirect targets.
func safeReturn(ret string) string {
    if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, "/\\") {
        return "/"
    }
    return ret
}

func writeJSON(w http.ResponseWriter, v any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    if err := enc.Encode(v); err != nil {
        applog.Warnf("json encode: %v", err)
    }
}
