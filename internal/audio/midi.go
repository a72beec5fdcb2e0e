package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verte-zerg/tuear/internal/model"
)

const (
	recordBPM      = 120.0
	recordVelocity = 96
	recordChannel  = 0
	// noteLength is used for chord tones and single notes.
	noteLength = 500 * time.Millisecond
	// cueRest separates consecutive cues in the recording.
	cueRest = time.Second
)

// KeyMapper resolves note names to MIDI key numbers.
type KeyMapper interface {
	MIDIKey(name string) (uint8, bool)
}

// MIDIRecorder collects every played cue into a single-track Standard MIDI File.
type MIDIRecorder struct {
	keys       KeyMapper
	resolution smf.MetricTicks

	mu    sync.Mutex
	track smf.Track
	delta uint32
	cues  int
}

// NewMIDIRecorder returns an empty recorder at 120 BPM.
func NewMIDIRecorder(keys KeyMapper) *MIDIRecorder {
	r := &MIDIRecorder{keys: keys, resolution: smf.MetricTicks(960)}
	r.track.Add(0, smf.MetaTempo(recordBPM))
	return r
}

// Cues returns the number of recorded cues.
func (r *MIDIRecorder) Cues() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cues
}

// Play records the cue. It never blocks on audio.
func (r *MIDIRecorder) Play(_ context.Context, cue model.Cue) error {
	keys := make([]uint8, 0, len(cue.Notes))
	for _, note := range cue.Notes {
		key, ok := r.keys.MIDIKey(note)
		if !ok {
			return fmt.Errorf("no MIDI key for note %q", note)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cues > 0 {
		r.delta += r.ticks(cueRest)
	}
	if cue.Together || cue.Gap <= 0 {
		r.addStacked(keys, r.ticks(noteLength))
	} else {
		length := r.ticks(cue.Gap)
		for _, key := range keys {
			r.addStacked([]uint8{key}, length)
		}
	}
	r.cues++
	return nil
}

func (r *MIDIRecorder) addStacked(keys []uint8, length uint32) {
	for _, key := range keys {
		r.track.Add(r.delta, midi.NoteOn(recordChannel, key, recordVelocity))
		r.delta = 0
	}
	for i, key := range keys {
		if i == 0 {
			r.track.Add(length, midi.NoteOff(recordChannel, key))
			continue
		}
		r.track.Add(0, midi.NoteOff(recordChannel, key))
	}
}

func (r *MIDIRecorder) ticks(d time.Duration) uint32 {
	beat := time.Duration(float64(time.Minute) / recordBPM)
	return uint32(float64(r.resolution.Ticks4th()) * float64(d) / float64(beat))
}

// WriteTo encodes the recording as a Standard MIDI File.
func (r *MIDIRecorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	track := append(smf.Track(nil), r.track...)
	r.mu.Unlock()
	track.Close(0)

	s := smf.New()
	s.TimeFormat = r.resolution
	if err := s.Add(track); err != nil {
		return 0, fmt.Errorf("failed to add track: %w", err)
	}
	return s.WriteTo(w)
}

// WriteFile saves the recording to path, replacing any existing file.
func (r *MIDIRecorder) WriteFile(path string) error {
	return writeAtomic(path, "recording-*.mid", func(w io.Writer) error {
		_, err := r.WriteTo(w)
		return err
	})
}

func writeAtomic(path, pattern string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
