package specialize

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/doarr-lang/dcc/internal/common"
)

// Lifecycle pings systemd (when the host process was started as a Type=notify
// unit) with readiness and periodic watchdog keepalives (SPEC_FULL.md §4.I;
// see DESIGN.md for the ticker-loop shape and SdNotify call sites this is
// grounded on). A no-op everywhere the process wasn't launched under
// systemd — daemon.SdNotify reports that itself and every call here ignores
// the result.
type Lifecycle struct {
	log *common.LoggerWrapper
}

func NewLifecycle(log *common.LoggerWrapper) *Lifecycle {
	return &Lifecycle{log: log}
}

// Ready notifies systemd that the runtime engine has finished initializing
// (its cache is constructed and it's ready to serve Engine.Invoke calls).
func (l *Lifecycle) Ready() {
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		l.log.Error("systemd notify ready:", err)
	} else if ok {
		l.log.Info(1, "systemd: reported ready")
	}
}

// Stopping notifies systemd that a graceful shutdown has begun.
func (l *Lifecycle) Stopping() {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		l.log.Error("systemd notify stopping:", err)
	}
}

// RunWatchdog pings systemd's watchdog at half the interval systemd expects
// (WATCHDOG_USEC / 2, the conventional margin), until ctx is cancelled. A
// process not running under a watchdog unit gets an empty interval from
// SdWatchdogEnabled and this returns immediately.
func (l *Lifecycle) RunWatchdog(ctx context.Context) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}

	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				l.log.Error("systemd notify watchdog:", err)
			}
		}
	}
}
