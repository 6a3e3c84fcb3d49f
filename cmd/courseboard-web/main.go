package main

import (
	"context"
	"errors"
	"flag"
	"net"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/htu-dlearn/courseboard/internal/auth"
	"github.com/htu-dlearn/courseboard/internal/config"
	applog "github.com/htu-dlearn/courseboard/internal/log"
	"github.com/htu-dlearn/courseboard/internal/server"
	"github.com/htu-dlearn/courseboard/internal/sheet"
)

func main() {
	configFlag := flag.String("config", "", "path to config.yaml")
	listenFlag := flag.String("listen", "", "listen address, overrides env and config")
	flag.Parse()

	cfg, err := config.Load(resolveConfigPath(*configFlag))
	if err != nil {
		stdlog.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("config error: %v", err)
	}
	applog.InitFromEnvFallback(cfg.Logging.Level)

	userStore, err := buildUserStore(cfg)
	if err != nil {
		stdlog.Fatalf("users: %v", err)
	}

	srv := server.NewServerWithConfig(userStore, cfg)
	sched, err := sheet.StartRefresh(cfg.Fetch.RefreshSchedule, srv.Store())
	if err != nil {
		stdlog.Fatalf("refresh schedule: %v", err)
	}

	listenAddr := resolveListenAddress(cfg, *listenFlag)
	httpSrv := &http.Server{
		Addr:              listenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		stdlog.Fatalf("listen: %v", err)
	}
	applog.Infof("courseboard listening on %s (%d sources)", ln.Addr(), len(cfg.Sources))
	if err := serve(ctx, httpSrv, ln, func() {
		if sched != nil {
			<-sched.Stop().Done()
		}
	}); err != nil {
		stdlog.Fatalf("server error: %v", err)
	}
	applog.Infof("courseboard stopped")
}

// serve runs srv on ln until ctx ends, then stops accepting, runs onStop and
// waits for in-flight requests to drain (up to five seconds).
func serve(ctx context.Context, srv *http.Server, ln net.Listener, onStop func()) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if onStop != nil {
			onStop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			applog.Warnf("shutdown: %v", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}

// resolveConfigPath prefers the flag, then config.yaml here or two levels up.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	for _, p := range []string{"config.yaml", "../../config.yaml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// resolveListenAddress: flag > COURSEBOARD_LISTEN > config > :8080.
func resolveListenAddress(cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("COURSEBOARD_LISTEN"); v != "" {
		return v
	}
	if cfg != nil && cfg.Listen != "" {
		return cfg.Listen
	}
	return ":8080"
}

// buildUserStore returns nil when nobody is configured, which leaves the
// dashboard public.
func buildUserStore(cfg *config.Config) (auth.UserStore, error) {
	store := auth.NewInMemoryUserStore()
	for _, u := range cfg.Users {
		if u.Username == "" || u.PasswordHash == "" {
			continue
		}
		if err := store.AddUserHash(u.Username, []byte(u.PasswordHash)); err != nil {
			return nil, err
		}
	}
	if store.Len() == 0 {
		user, pass := os.Getenv("COURSEBOARD_USER"), os.Getenv("COURSEBOARD_PASS")
		if user != "" && pass != "" {
			if err := store.AddUserPlain(user, pass); err != nil {
				return nil, err
			}
		}
	}
	if store.Len() == 0 {
		return nil, nil
	}
	return store, nil
}
