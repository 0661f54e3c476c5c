package collections

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/griesmnr/flash-cards/internal/models"

	"gopkg.in/yaml.v3"
)

// Manifest maps collection identifiers to JSON data files, in display order.
type Manifest struct {
	Collections []Entry `yaml:"collections"`
}

type Entry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// LoadManifest reads a YAML manifest. Relative paths are resolved against the
// manifest's directory; an entry without a name takes its file name minus
// extension.
func LoadManifest(path string) (Manifest, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(body, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range m.Collections {
		e := &m.Collections[i]
		e.Path = strings.TrimSpace(e.Path)
		if e.Path == "" {
			return Manifest{}, fmt.Errorf("manifest %s: entry %d has no path", path, i)
		}
		if !filepath.IsAbs(e.Path) {
			e.Path = filepath.Join(base, e.Path)
		}
		if e.Name = strings.TrimSpace(e.Name); e.Name == "" {
			e.Name = displayName(e.Path)
		}
	}
	if err := m.validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// DiscoverManifest builds a manifest from the *.json files directly inside
// dir, sorted by name, with the extension stripped for display.
func DiscoverManifest(dir string) (Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Manifest{}, fmt.Errorf("read data dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	m := Manifest{Collections: make([]Entry, 0, len(files))}
	for _, f := range files {
		m.Collections = append(m.Collections, Entry{Name: displayName(f), Path: filepath.Join(dir, f)})
	}
	return m, m.validate()
}

// Names returns the collection identifiers in manifest order.
func (m Manifest) Names() []string {
	out := make([]string, len(m.Collections))
	for i, e := range m.Collections {
		out[i] = e.Name
	}
	return out
}

// Lookup returns the entry for name.
func (m Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Collections {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (m Manifest) validate() error {
	seen := make(map[string]bool, len(m.Collections))
	for _, e := range m.Collections {
		if seen[e.Name] {
			return fmt.Errorf("%w: %s", models.ErrDuplicateCollection, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
