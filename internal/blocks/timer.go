package blocks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sliink/barline/internal/core"
	"github.com/sliink/barline/internal/model"
)

// timerConfig is the block-specific configuration of the timer block
type timerConfig struct {
	// minutes is the starting countdown length; the wheel adjusts it
	// while the timer is idle
	minutes int64
	message string
	// notifyCmd is run when the countdown expires, with {msg}
	// substituted by message
	notifyCmd string
	// blockingCmd waits for notifyCmd instead of requiring a click to
	// acknowledge
	blockingCmd bool
}

func parseTimerConfig(raw map[string]any) (*timerConfig, error) {
	cfg := &timerConfig{}
	var err error
	if cfg.minutes, err = cfgInt(raw, "minutes", 25); err != nil {
		return nil, err
	}
	if cfg.minutes <= 0 {
		return nil, model.NewConfigError("minutes", "must be positive, got %d", cfg.minutes)
	}
	if cfg.message, err = cfgString(raw, "message", "Time is up!"); err != nil {
		return nil, err
	}
	if cfg.notifyCmd, err = cfgString(raw, "notify_cmd", ""); err != nil {
		return nil, err
	}
	if cfg.blockingCmd, err = cfgBool(raw, "blocking_cmd", false); err != nil {
		return nil, err
	}
	return cfg, nil
}

// timerBlock is one running timer instance
type timerBlock struct {
	api *core.BlockAPI
	cfg *timerConfig
}

// runTimer is an interactive countdown: idle until a left click starts
// it, wheel up/down adjusts the length while idle, a middle click
// cancels a running countdown, and expiry shows the configured message
// until acknowledged with a left click.
func runTimer(ctx context.Context, raw map[string]any, api *core.BlockAPI) error {
	cfg, err := parseTimerConfig(raw)
	if err != nil {
		return err
	}
	block := &timerBlock{api: api, cfg: cfg}

	minutes := cfg.minutes
	for {
		minutes, err = block.idle(ctx, minutes)
		if err != nil {
			return err
		}

		finished, err := block.countdown(ctx, time.Duration(minutes)*time.Minute)
		if err != nil {
			return err
		}
		if !finished {
			continue
		}

		if err := block.announce(ctx); err != nil {
			return err
		}
	}
}

// idle shows the configured length and lets the wheel adjust it until a
// left click starts the countdown
func (b *timerBlock) idle(ctx context.Context, minutes int64) (int64, error) {
	for {
		b.api.SetState(model.SeverityIdle)
		if err := b.api.SetIcon("timer_off"); err != nil {
			return 0, err
		}
		b.api.SetText(fmt.Sprintf("%d min", minutes))
		b.api.Show()
		if err := b.api.Flush(ctx); err != nil {
			return 0, err
		}

		event, err := b.api.NextEvent(ctx)
		if err != nil {
			return 0, err
		}
		click, ok := event.(model.ClickEvent)
		if !ok {
			continue
		}
		switch click.Button {
		case model.LeftButton:
			return minutes, nil
		case model.WheelUp:
			minutes++
		case model.WheelDown:
			if minutes > 1 {
				minutes--
			}
		}
	}
}

// countdown runs the timer, redrawing the remaining time. It reports
// false when cancelled with a middle click.
func (b *timerBlock) countdown(ctx context.Context, length time.Duration) (bool, error) {
	started := time.Now()
	for {
		left := length - time.Since(started)
		if left <= 0 {
			return true, nil
		}

		b.api.SetState(model.SeverityInfo)
		if err := b.api.SetIcon("timer"); err != nil {
			return false, err
		}
		b.api.SetText(formatRemaining(left))
		if err := b.api.Flush(ctx); err != nil {
			return false, err
		}

		tick := time.Second
		if left < tick {
			tick = left
		}
		waitCtx, cancel := context.WithTimeout(ctx, tick)
		event, err := b.api.NextEvent(waitCtx)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			continue
		}
		if err != nil {
			return false, err
		}
		if click, ok := event.(model.ClickEvent); ok && click.Button == model.MiddleButton {
			return false, nil
		}
	}
}

// announce shows the expiry message, runs the notifier if configured and
// waits for a left click acknowledgment
func (b *timerBlock) announce(ctx context.Context) error {
	b.api.SetState(model.SeverityGood)
	if err := b.api.SetIcon("timer_done"); err != nil {
		return err
	}
	b.api.SetText(b.cfg.message)
	if err := b.api.Flush(ctx); err != nil {
		return err
	}

	if b.cfg.notifyCmd != "" {
		cmd := strings.ReplaceAll(b.cfg.notifyCmd, "{msg}", b.cfg.message)
		if b.cfg.blockingCmd {
			if err := exec.CommandContext(ctx, "sh", "-c", cmd).Run(); err != nil {
				return fmt.Errorf("notify_cmd failed: %w", err)
			}
			return nil
		}
		command := exec.Command("sh", "-c", cmd)
		if err := command.Start(); err != nil {
			return fmt.Errorf("notify_cmd failed to start: %w", err)
		}
		go func() {
			_ = command.Wait()
		}()
	}
	return b.waitForLeftClick(ctx)
}

func (b *timerBlock) waitForLeftClick(ctx context.Context) error {
	for {
		event, err := b.api.NextEvent(ctx)
		if err != nil {
			return err
		}
		if click, ok := event.(model.ClickEvent); ok && click.Button == model.LeftButton {
			return nil
		}
	}
}

// formatRemaining renders a countdown as whole minutes, rounding up so
// the display never shows zero while time remains
func formatRemaining(left time.Duration) string {
	minutes := (left + time.Minute - time.Second) / time.Minute
	return fmt.Sprintf("%d min", minutes)
}
