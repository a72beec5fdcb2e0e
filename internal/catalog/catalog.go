// Package catalog holds the fixed musical tables the quiz draws from.
//
// A Catalog is built once at startup and never mutated afterwards. Accessors
// return copies so callers cannot change the shared tables.
package catalog

import (
	"fmt"
	"math"
)

const (
	// ChordRootSpan is subtracted from the note count to get the highest chord root.
	ChordRootSpan = 8
	// ScaleRootSpan is subtracted from the note count to get the highest scale root.
	ScaleRootSpan = 13
	// IntervalCount is the number of interval classes, Unison through Octave.
	IntervalCount = 13

	firstMIDIKey = 60 // C4
	a4MIDIKey    = 69
	a4Frequency  = 440.0
)

var defaultNotes = []string{
	"C4", "Cs4", "D4", "Ds4", "E4", "F4", "Fs4", "G4", "Gs4", "A4", "As4", "B4",
	"C5", "Cs5", "D5",
}

var defaultIntervals = []string{
	"Unison", "m2", "M2", "m3", "M3", "P4", "TT", "P5", "m6", "M6", "m7", "M7", "Octave",
}

var defaultChords = []Shape{
	{Name: "Major", Offsets: []int{0, 4, 7}},
	{Name: "Minor", Offsets: []int{0, 3, 7}},
	{Name: "Diminished", Offsets: []int{0, 3, 6}},
	{Name: "Augmented", Offsets: []int{0, 4, 8}},
}

var defaultScales = []Shape{
	{Name: "Major", Offsets: []int{0, 2, 4, 5, 7, 9, 11, 12}},
	{Name: "Natural Minor", Offsets: []int{0, 2, 3, 5, 7, 8, 10, 12}},
	{Name: "Pentatonic", Offsets: []int{0, 2, 4, 7, 9, 12}},
}

// Shape is a named set of semitone offsets from a root.
type Shape struct {
	Name    string
	Offsets []int
}

// MaxOffset returns the widest offset in the shape.
func (s Shape) MaxOffset() int {
	maxOffset := 0
	for _, off := range s.Offsets {
		if off > maxOffset {
			maxOffset = off
		}
	}
	return maxOffset
}

func (s Shape) clone() Shape {
	return Shape{Name: s.Name, Offsets: append([]int(nil), s.Offsets...)}
}

// Catalog is the immutable set of notes, intervals, chords and scales.
type Catalog struct {
	notes     []string
	intervals []string
	chords    []Shape
	scales    []Shape
	noteIndex map[string]int
}

// Default returns the built-in catalog spanning C4..D5.
func Default() *Catalog {
	c, err := newCatalog(defaultNotes, defaultIntervals, defaultChords, defaultScales)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in tables: %v", err))
	}
	return c
}

func newCatalog(notes, intervals []string, chords, scales []Shape) (*Catalog, error) {
	c := &Catalog{
		notes:     append([]string(nil), notes...),
		intervals: append([]string(nil), intervals...),
		chords:    make([]Shape, 0, len(chords)),
		scales:    make([]Shape, 0, len(scales)),
		noteIndex: make(map[string]int, len(notes)),
	}
	for _, ch := range chords {
		c.chords = append(c.chords, ch.clone())
	}
	for _, sc := range scales {
		c.scales = append(c.scales, sc.clone())
	}
	for i, n := range c.notes {
		c.noteIndex[n] = i
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.notes) < ScaleRootSpan {
		return fmt.Errorf("need at least %d notes, got %d", ScaleRootSpan, len(c.notes))
	}
	if len(c.noteIndex) != len(c.notes) {
		return fmt.Errorf("note names must be unique")
	}
	if len(c.intervals) != IntervalCount {
		return fmt.Errorf("need %d interval names, got %d", IntervalCount, len(c.intervals))
	}
	if err := validateShapes("chord", c.chords, len(c.notes)); err != nil {
		return err
	}
	return validateShapes("scale", c.scales, len(c.notes))
}

func validateShapes(kind string, shapes []Shape, noteCount int) error {
	if len(shapes) == 0 {
		return fmt.Errorf("at least one %s is required", kind)
	}
	seen := make(map[string]struct{}, len(shapes))
	for _, sh := range shapes {
		if sh.Name == "" {
			return fmt.Errorf("%s name must not be empty", kind)
		}
		if _, ok := seen[sh.Name]; ok {
			return fmt.Errorf("duplicate %s %q", kind, sh.Name)
		}
		seen[sh.Name] = struct{}{}
		if len(sh.Offsets) == 0 {
			return fmt.Errorf("%s %q has no offsets", kind, sh.Name)
		}
		for _, off := range sh.Offsets {
			if off < 0 {
				return fmt.Errorf("%s %q has negative offset %d", kind, sh.Name, off)
			}
		}
		if sh.MaxOffset() >= noteCount {
			return fmt.Errorf("%s %q spans %d semitones, too wide for the note range", kind, sh.Name, sh.MaxOffset())
		}
	}
	return nil
}

// NoteCount returns the number of notes.
func (c *Catalog) NoteCount() int { return len(c.notes) }

// NoteNames returns the ordered chromatic note names.
func (c *Catalog) NoteNames() []string { return append([]string(nil), c.notes...) }

// Note returns the name of the note at index i.
func (c *Catalog) Note(i int) string { return c.notes[i] }

// NoteIndex returns the index of a note name.
func (c *Catalog) NoteIndex(name string) (int, bool) {
	i, ok := c.noteIndex[name]
	return i, ok
}

// IntervalNames returns the interval names ordered by semitone distance.
func (c *Catalog) IntervalNames() []string { return append([]string(nil), c.intervals...) }

// Interval returns the name of interval id i.
func (c *Catalog) Interval(i int) string { return c.intervals[i] }

// Chords returns the chord table in display order.
func (c *Catalog) Chords() []Shape { return cloneShapes(c.chords) }

// Scales returns the scale table in display order.
func (c *Catalog) Scales() []Shape { return cloneShapes(c.scales) }

// ChordCount returns the number of chords.
func (c *Catalog) ChordCount() int { return len(c.chords) }

// ScaleCount returns the number of scales.
func (c *Catalog) ScaleCount() int { return len(c.scales) }

// ChordAt returns the chord at index i.
func (c *Catalog) ChordAt(i int) Shape { return c.chords[i].clone() }

// ScaleAt returns the scale at index i.
func (c *Catalog) ScaleAt(i int) Shape { return c.scales[i].clone() }

// Chord looks up a chord by name.
func (c *Catalog) Chord(name string) (Shape, bool) { return findShape(c.chords, name) }

// Scale looks up a scale by name.
func (c *Catalog) Scale(name string) (Shape, bool) { return findShape(c.scales, name) }

// MIDIKey returns the MIDI key number for a note name. C4 is 60.
func (c *Catalog) MIDIKey(name string) (uint8, bool) {
	i, ok := c.noteIndex[name]
	if !ok {
		return 0, false
	}
	return uint8(firstMIDIKey + i), true
}

// Frequency returns the equal-tempered frequency in Hz with A4 at 440 Hz.
func (c *Catalog) Frequency(name string) (float64, bool) {
	key, ok := c.MIDIKey(name)
	if !ok {
		return 0, false
	}
	return a4Frequency * math.Pow(2, float64(int(key)-a4MIDIKey)/12), true
}

// MaxChordRoot returns the highest root index usable for the chord.
func (c *Catalog) MaxChordRoot(sh Shape) int {
	return maxRoot(len(c.notes), ChordRootSpan, sh)
}

// MaxScaleRoot returns the highest root index usable for the scale.
func (c *Catalog) MaxScaleRoot(sh Shape) int {
	return maxRoot(len(c.notes), ScaleRootSpan, sh)
}

// maxRoot keeps root+span inside the note range and also clamps wide shapes
// so root+MaxOffset never runs past the last note.
func maxRoot(noteCount, span int, sh Shape) int {
	root := noteCount - span
	if limit := noteCount - 1 - sh.MaxOffset(); limit < root {
		root = limit
	}
	if root < 0 {
		return 0
	}
	return root
}

// Transpose returns the notes at root+offset for each offset.
func (c *Catalog) Transpose(root int, offsets []int) []string {
	out := make([]string, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, c.notes[root+off])
	}
	return out
}

func findShape(shapes []Shape, name string) (Shape, bool) {
	for _, sh := range shapes {
		if sh.Name == name {
			return sh.clone(), true
		}
	}
	return Shape{}, false
}

func cloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, sh := range shapes {
		out[i] = sh.clone()
	}
	return out
}
