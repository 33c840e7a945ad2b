package staging

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"livpconv/internal/logging"
)

// The exit guard tracks every live workspace so an interrupted run never
// strands scratch directories. Per-attempt Release remains the primary
// cleanup path; this is the process-level fallback.
var guard = struct {
	mu     sync.Mutex
	active map[string]struct{}
}{active: make(map[string]struct{})}

var installOnce sync.Once

func register(path string) {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	guard.active[path] = struct{}{}
}

func unregister(path string) {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	delete(guard.active, path)
}

// CleanupActive removes every workspace still registered. Called by the
// exit guard and deferred by the runner as a belt for abnormal unwinds.
func CleanupActive() {
	guard.mu.Lock()
	paths := make([]string, 0, len(guard.active))
	for path := range guard.active {
		paths = append(paths, path)
	}
	guard.active = make(map[string]struct{})
	guard.mu.Unlock()

	for _, path := range paths {
		_ = os.RemoveAll(path)
	}
}

// InstallExitGuard installs a SIGINT/SIGTERM handler, once per process,
// that removes in-flight workspaces before exiting with the conventional
// interrupted status.
func InstallExitGuard(logger *slog.Logger) {
	installOnce.Do(func() {
		if logger == nil {
			logger = logging.NewNop()
		}
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-ch
			logger.Warn("interrupted, cleaning up staging workspaces",
				logging.String("signal", sig.String()),
			)
			CleanupActive()
			os.Exit(130)
		}()
	})
}

// ActiveCount reports how many workspaces are currently registered.
func ActiveCount() int {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	return len(guard.active)
}
