package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"
)

// ClipFormat describes rendered note clips.
type ClipFormat struct {
	SampleRate int
	Duration   time.Duration
	// Amplitude scales the sine wave, 0..1 of full scale.
	Amplitude float64
}

// DefaultClipFormat is 44.1 kHz mono 16-bit, half a second at half scale.
var DefaultClipFormat = ClipFormat{
	SampleRate: 44100,
	Duration:   500 * time.Millisecond,
	Amplitude:  0.5,
}

// Validate checks the format can produce a clip.
func (f ClipFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0")
	}
	if f.Duration <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if f.Amplitude <= 0 || f.Amplitude > 1 {
		return fmt.Errorf("amplitude must be in (0, 1]")
	}
	return nil
}

// SampleCount returns the number of samples in one clip.
func (f ClipFormat) SampleCount() int {
	return int(int64(f.SampleRate) * int64(f.Duration) / int64(time.Second))
}

// FrequencyTable lists notes and their pitch.
type FrequencyTable interface {
	NoteNames() []string
	Frequency(name string) (float64, bool)
}

// SineSamples renders a pure sine tone as signed 16-bit samples.
func SineSamples(freq float64, f ClipFormat) []int16 {
	n := f.SampleCount()
	out := make([]int16, n)
	for i := range out {
		t := float64(i) / float64(f.SampleRate)
		out[i] = int16(f.Amplitude * math.Sin(2*math.Pi*freq*t) * math.MaxInt16)
	}
	return out
}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// WriteWAV writes mono 16-bit PCM samples as a RIFF/WAVE stream.
func WriteWAV(w io.Writer, samples []int16, sampleRate int) error {
	dataSize := uint32(len(samples) * 2)
	hdr := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	return bw.Flush()
}

// RenderResult reports what RenderClips did for one note.
type RenderResult struct {
	Note    string
	Path    string
	Skipped bool
}

// RenderClips writes <note>.wav for every note in the table. Existing clips
// are kept unless force is set.
func RenderClips(dir string, table FrequencyTable, f ClipFormat, force bool) ([]RenderResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create clip directory: %w", err)
	}
	notes := table.NoteNames()
	results := make([]RenderResult, 0, len(notes))
	for _, note := range notes {
		path := filepath.Join(dir, note+".wav")
		if !force {
			if _, err := os.Stat(path); err == nil {
				results = append(results, RenderResult{Note: note, Path: path, Skipped: true})
				continue
			} else if !os.IsNotExist(err) {
				return results, fmt.Errorf("failed to stat clip: %w", err)
			}
		}
		freq, ok := table.Frequency(note)
		if !ok {
			return results, fmt.Errorf("no frequency for note %q", note)
		}
		samples := SineSamples(freq, f)
		err := writeAtomic(path, "clip-*.wav", func(w io.Writer) error {
			return WriteWAV(w, samples, f.SampleRate)
		})
		if err != nil {
			return results, err
		}
		results = append(results, RenderResult{Note: note, Path: path})
	}
	return results, nil
}
