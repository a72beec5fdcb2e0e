package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileCatalog is the TOML layout of a catalog override.
//
//	[[chord]]
//	name = "Sus4"
//	offsets = [0, 5, 7]
type fileCatalog struct {
	Chords []fileShape `toml:"chord"`
	Scales []fileShape `toml:"scale"`
}

type fileShape struct {
	Name    string `toml:"name"`
	Offsets []int  `toml:"offsets"`
}

// Load reads chord and scale tables from a TOML file. Tables missing from the
// file keep their built-in values; a missing file yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}
	var fc fileCatalog
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	chords := defaultChords
	if len(fc.Chords) > 0 {
		chords = toShapes(fc.Chords)
	}
	scales := defaultScales
	if len(fc.Scales) > 0 {
		scales = toShapes(fc.Scales)
	}
	c, err := newCatalog(defaultNotes, defaultIntervals, chords, scales)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

func toShapes(in []fileShape) []Shape {
	out := make([]Shape, 0, len(in))
	for _, fs := range in {
		out = append(out, Shape{Name: fs.Name, Offsets: fs.Offsets})
	}
	return out
}
