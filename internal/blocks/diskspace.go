package blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sliink/barline/internal/core"
	"github.com/sliink/barline/internal/model"
	"golang.org/x/sys/unix"
)

// diskSpaceConfig is the block-specific configuration of the disk_space
// block, decoded after the shared fields were removed.
type diskSpaceConfig struct {
	path     string
	infoType string
	format   string
	interval time.Duration
	warning  float64
	alert    float64
	// alertUnit scales the warning/alert thresholds; empty means the
	// thresholds are percentages
	alertUnit string
}

type diskSpaceStats struct {
	total     uint64
	used      uint64
	free      uint64
	available uint64
}

func parseDiskSpaceConfig(raw map[string]any) (*diskSpaceConfig, error) {
	cfg := &diskSpaceConfig{}
	var err error
	if cfg.path, err = cfgString(raw, "path", "/"); err != nil {
		return nil, err
	}
	if cfg.infoType, err = cfgString(raw, "info_type", "available"); err != nil {
		return nil, err
	}
	switch cfg.infoType {
	case "available", "free", "used":
	default:
		return nil, model.NewConfigError("info_type", "must be available, free or used, got %q", cfg.infoType)
	}
	if cfg.format, err = cfgString(raw, "format", " $icon $available "); err != nil {
		return nil, err
	}
	seconds, err := cfgInt(raw, "interval", 20)
	if err != nil {
		return nil, err
	}
	cfg.interval = time.Duration(seconds) * time.Second
	if cfg.warning, err = cfgFloat(raw, "warning", 20.0); err != nil {
		return nil, err
	}
	if cfg.alert, err = cfgFloat(raw, "alert", 10.0); err != nil {
		return nil, err
	}
	if cfg.alertUnit, err = cfgString(raw, "alert_unit", ""); err != nil {
		return nil, err
	}
	switch cfg.alertUnit {
	case "", "B", "KB", "MB", "GB", "TB":
	default:
		return nil, model.NewConfigError("alert_unit", "unknown unit %q", cfg.alertUnit)
	}
	return cfg, nil
}

// runDiskSpace polls filesystem usage for the configured path and keeps
// the segment's values, severity and icon current. Clicks and signals
// mapped to update requests refresh it between polls.
func runDiskSpace(ctx context.Context, raw map[string]any, api *core.BlockAPI) error {
	cfg, err := parseDiskSpaceConfig(raw)
	if err != nil {
		return err
	}

	api.SetFormat(cfg.format)

	for {
		stats, err := core.Recoverable(ctx, api, func() (diskSpaceStats, error) {
			return statDiskSpace(cfg.path)
		}, "disk error")
		if err != nil {
			return err
		}

		measured := float64(stats.available)
		switch cfg.infoType {
		case "free":
			measured = float64(stats.free)
		case "used":
			measured = float64(stats.used)
		}
		percentage := 0.0
		if stats.total > 0 {
			percentage = measured / float64(stats.total) * 100
		}

		if err := api.SetIcon("disk_drive"); err != nil {
			return err
		}
		api.SetValues(map[string]model.Value{
			"path":       model.TextValue(cfg.path),
			"percentage": model.PercentsValue(percentage),
			"total":      model.BytesValue(float64(stats.total)),
			"used":       model.BytesValue(float64(stats.used)),
			"free":       model.BytesValue(float64(stats.free)),
			"available":  model.BytesValue(float64(stats.available)),
		})
		api.SetState(diskSpaceSeverity(cfg, measured, percentage))
		api.Show()
		if err := api.Flush(ctx); err != nil {
			return err
		}

		if err := waitForUpdate(ctx, api, cfg.interval); err != nil {
			return err
		}
	}
}

// statDiskSpace reads usage counters for the filesystem holding path
func statDiskSpace(path string) (diskSpaceStats, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return diskSpaceStats{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	frsize := uint64(st.Frsize)
	bsize := uint64(st.Bsize)
	return diskSpaceStats{
		total:     st.Blocks * frsize,
		used:      (st.Blocks - st.Bfree) * frsize,
		free:      st.Bfree * bsize,
		available: st.Bavail * bsize,
	}, nil
}

// diskSpaceSeverity grades the measured value against the thresholds.
// For used space high values are bad; for free/available low values
// are.
func diskSpaceSeverity(cfg *diskSpaceConfig, measured, percentage float64) model.Severity {
	value := percentage
	switch cfg.alertUnit {
	case "B":
		value = measured
	case "KB":
		value = measured * 1e-3
	case "MB":
		value = measured * 1e-6
	case "GB":
		value = measured * 1e-9
	case "TB":
		value = measured * 1e-12
	}

	if cfg.infoType == "used" {
		switch {
		case value >= cfg.alert:
			return model.SeverityCritical
		case value >= cfg.warning:
			return model.SeverityWarning
		default:
			return model.SeverityIdle
		}
	}
	switch {
	case value <= cfg.alert:
		return model.SeverityCritical
	case value <= cfg.warning:
		return model.SeverityWarning
	default:
		return model.SeverityIdle
	}
}

// waitForUpdate sleeps until the interval elapses or an update request
// arrives, whichever is first. Clicks without an update rule are
// drained and ignored.
func waitForUpdate(ctx context.Context, api *core.BlockAPI, interval time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()

	for {
		event, err := api.NextEvent(waitCtx)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil
		}
		if err != nil {
			return err
		}
		if _, ok := event.(model.UpdateRequestEvent); ok {
			return nil
		}
	}
}
