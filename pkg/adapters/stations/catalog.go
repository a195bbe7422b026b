package stations

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/aretw0/renfebot/pkg/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed stations.yaml
var embeddedCatalog []byte

// Station is one entry of the catalog.
type Station struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

type catalogFile struct {
	Stations []Station `yaml:"stations"`
}

// Catalog implements ports.StationResolver with exact matching that ignores
// case, accents and repeated spaces.
type Catalog struct {
	names []string
	index map[string]string
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Load reads a YAML catalog from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse station catalog: %w", err)
	}
	return New(f.Stations...)
}

// New indexes stations. Two stations may not share a spelling.
func New(stations ...Station) (*Catalog, error) {
	c := &Catalog{index: make(map[string]string)}

	// Explicit names and aliases first, so derived spellings never shadow them.
	for _, s := range stations {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("station with empty name")
		}
		c.names = append(c.names, s.Name)
		for _, spelling := range append([]string{s.Name}, s.Aliases...) {
			key := Normalize(spelling)
			if other, dup := c.index[key]; dup && other != s.Name {
				return nil, fmt.Errorf("%q matches both %q and %q", spelling, other, s.Name)
			}
			c.index[key] = s.Name
		}
	}
	for _, s := range stations {
		for _, spelling := range derived(s.Name) {
			key := Normalize(spelling)
			if _, taken := c.index[key]; !taken {
				c.index[key] = s.Name
			}
		}
	}

	sort.Strings(c.names)
	return c, nil
}

// Resolve returns the canonical name for input or domain.ErrUnknownStation.
func (c *Catalog) Resolve(input string) (string, error) {
	if name, ok := c.index[Normalize(input)]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownStation, input)
}

// Names lists the canonical station names, sorted.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// derived yields the bare city for "X (TODAS)" and each half of "A/B".
func derived(name string) []string {
	var out []string
	if city, ok := strings.CutSuffix(name, "(TODAS)"); ok {
		out = append(out, city)
	}
	if strings.Contains(name, "/") {
		out = append(out, strings.Split(name, "/")...)
	}
	return out
}

// Normalize folds case, strips accents and collapses whitespace and dashes.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, stripped)
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}
