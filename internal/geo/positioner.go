package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// PositionOptions mirror the device geolocation request knobs.
type PositionOptions struct {
	// Timeout bounds the whole fix acquisition.
	Timeout time.Duration
	// MaximumAge accepts a previously acquired fix no older than this.
	MaximumAge time.Duration
	// HighAccuracy requests a precise (GPS rather than network) fix.
	HighAccuracy bool
}

// DefaultPositionOptions are the options used by Resolver.ResolveViaGPS.
var DefaultPositionOptions = PositionOptions{
	Timeout:      10 * time.Second,
	MaximumAge:   5 * time.Minute,
	HighAccuracy: true,
}

// Fix is a raw device coordinate fix.
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Positioner is the device geolocation capability. Implementations must map
// device failures to ErrPermissionDenied, ErrTimeout, or ErrUnavailable.
type Positioner interface {
	Position(ctx context.Context, opts PositionOptions) (Fix, error)
}

const lastFixFile = "gpsfix.json"

// CommandPositioner acquires a fix by running a user-configured external
// command (e.g. termux-location) that prints {"latitude":..,"longitude":..}
// JSON on stdout. A recent fix is persisted so MaximumAge can be honored
// without re-running the command.
type CommandPositioner struct {
	// Command is the shell command to run. Empty means no device capability.
	Command string
	// StateDir holds the last-fix file. Empty disables fix reuse.
	StateDir string

	now func() time.Time
}

// NewCommandPositioner creates a Positioner that shells out to command.
func NewCommandPositioner(command, stateDir string) *CommandPositioner {
	return &CommandPositioner{Command: command, StateDir: stateDir, now: time.Now}
}

type storedFix struct {
	Fix        Fix       `json:"fix"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Position runs the configured command, honoring opts.MaximumAge and
// opts.Timeout. Permission refusals from the device tool are detected from
// its output.
func (p *CommandPositioner) Position(ctx context.Context, opts PositionOptions) (Fix, error) {
	if p.Command == "" {
		return Fix{}, fmt.Errorf("no gps_command configured: %w", ErrUnavailable)
	}

	if fix, ok := p.recentFix(opts.MaximumAge); ok {
		return fix, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", p.Command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Fix{}, fmt.Errorf("gps fix: %w", ErrTimeout)
		}
		if isPermissionOutput(string(out)) {
			return Fix{}, fmt.Errorf("gps fix: %w", ErrPermissionDenied)
		}
		return Fix{}, fmt.Errorf("gps command failed: %v: %w", err, ErrUnavailable)
	}

	var fix Fix
	if err := json.Unmarshal(out, &fix); err != nil {
		return Fix{}, fmt.Errorf("gps command output not understood: %w", ErrUnavailable)
	}

	p.storeFix(fix)
	return fix, nil
}

// recentFix returns the stored fix when it is younger than maxAge.
func (p *CommandPositioner) recentFix(maxAge time.Duration) (Fix, bool) {
	if p.StateDir == "" || maxAge <= 0 {
		return Fix{}, false
	}

	data, err := os.ReadFile(filepath.Join(p.StateDir, lastFixFile))
	if err != nil {
		return Fix{}, false
	}

	var stored storedFix
	if err := json.Unmarshal(data, &stored); err != nil {
		return Fix{}, false
	}

	if p.now().Sub(stored.AcquiredAt) >= maxAge {
		return Fix{}, false
	}

	return stored.Fix, true
}

func (p *CommandPositioner) storeFix(fix Fix) {
	if p.StateDir == "" {
		return
	}

	data, err := json.Marshal(storedFix{Fix: fix, AcquiredAt: p.now()})
	if err != nil {
		return
	}

	if err := os.WriteFile(filepath.Join(p.StateDir, lastFixFile), data, 0o644); err != nil {
		log.Debug().Err(err).Msg("could not persist gps fix")
	}
}

// isPermissionOutput detects a permission refusal in device tool output.
func isPermissionOutput(out string) bool {
	lower := strings.ToLower(out)
	return strings.Contains(lower, "permission") || strings.Contains(lower, "denied")
}
