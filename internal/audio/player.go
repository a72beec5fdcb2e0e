// Package audio plays quiz cues and renders the note clips they use.
package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuear/internal/model"
)

// Player sounds a cue. Implementations may block until playback ends.
type Player interface {
	Play(ctx context.Context, cue model.Cue) error
}

// DefaultCommand returns the platform clip player command.
func DefaultCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "afplay"
	default:
		return "aplay -q"
	}
}

// ClipPlayer plays pre-rendered <note>.wav clips through an external command.
// A note without a clip is logged and skipped.
type ClipPlayer struct {
	dir     string
	command []string
	logger  *slog.Logger
	run     func(ctx context.Context, path string) error
}

// NewClipPlayer returns a player reading clips from dir. An empty command
// uses DefaultCommand; a nil logger discards diagnostics.
func NewClipPlayer(dir, command string, logger *slog.Logger) (*ClipPlayer, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand()
	}
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("player command is empty")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &ClipPlayer{dir: dir, command: parts, logger: logger}
	p.run = p.runCommand
	return p, nil
}

// ClipPath returns where the clip for note is expected.
func (p *ClipPlayer) ClipPath(note string) string {
	return filepath.Join(p.dir, note+".wav")
}

// Play starts each note at its onset (index*Gap, or all at once for
// Together cues) and waits for every clip to finish.
func (p *ClipPlayer) Play(ctx context.Context, cue model.Cue) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, note := range cue.Notes {
		note := note
		path, ok := p.clip(note)
		if !ok {
			continue
		}
		delay := time.Duration(i) * cue.Gap
		if cue.Together {
			delay = 0
		}
		g.Go(func() error {
			if err := sleepContext(gctx, delay); err != nil {
				return err
			}
			if err := p.run(gctx, path); err != nil {
				return fmt.Errorf("failed to play %s: %w", note, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *ClipPlayer) clip(note string) (string, bool) {
	path := p.ClipPath(note)
	if _, err := os.Stat(path); err != nil {
		p.logger.Warn("missing clip", "note", note, "path", path, "err", err)
		return "", false
	}
	return path, true
}

func (p *ClipPlayer) runCommand(ctx context.Context, path string) error {
	args := append(append([]string(nil), p.command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Multi plays a cue on every player at once. The first error wins.
type Multi []Player

// Play implements Player.
func (m Multi) Play(ctx context.Context, cue model.Cue) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range m {
		p := p
		if p == nil {
			continue
		}
		g.Go(func() error { return p.Play(gctx, cue) })
	}
	return g.Wait()
}
