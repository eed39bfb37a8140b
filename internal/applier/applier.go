// Package applier realizes the selection and opacity model on real windows.
package applier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/1broseidon/wintrans/internal/platform"
	"github.com/1broseidon/wintrans/internal/state"
)

// Report summarizes a best-effort batch. Stale windows are also listed in
// Failed.
type Report struct {
	Applied int
	Failed  []platform.WindowID
	Stale   []platform.WindowID
}

// OK reports whether every window in the batch succeeded.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// Applier issues style calls per window, tolerating per-window failure.
type Applier struct {
	styler platform.Styler
	logger *slog.Logger
}

// New creates an Applier over styler.
func New(styler platform.Styler, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Applier{styler: styler, logger: logger}
}

// Apply enables the layered style at opacity on selected windows and clears
// it on the rest. A failing window never stops the batch; only ctx
// cancellation does.
func (a *Applier) Apply(ctx context.Context, inv *state.Inventory, opacity int) Report {
	alpha := uint8(state.ClampOpacity(opacity))
	var report Report
	for i := 0; i < inv.Len(); i++ {
		if ctx.Err() != nil {
			a.logger.Debug("apply cancelled", "remaining", inv.Len()-i)
			break
		}
		rec := inv.At(i)
		var err error
		if rec.Selected {
			err = a.styler.EnableLayered(rec.Window.ID, alpha)
		} else {
			err = a.styler.DisableLayered(rec.Window.ID)
		}
		a.record(&report, rec.Window.ID, err)
	}
	return report
}

// ResetAll clears the layered style on every id with the same tolerance as
// Apply.
func (a *Applier) ResetAll(ctx context.Context, ids []platform.WindowID) Report {
	var report Report
	for i, id := range ids {
		if ctx.Err() != nil {
			a.logger.Debug("reset cancelled", "remaining", len(ids)-i)
			break
		}
		a.record(&report, id, a.styler.DisableLayered(id))
	}
	return report
}

func (a *Applier) record(report *Report, id platform.WindowID, err error) {
	if err == nil {
		report.Applied++
		return
	}
	report.Failed = append(report.Failed, id)
	if errors.Is(err, platform.ErrStaleWindow) {
		report.Stale = append(report.Stale, id)
		a.logger.Debug("window closed before style call", "window_id", uint64(id))
		return
	}
	a.logger.Warn("style call failed", "window_id", uint64(id), "error", err)
}
