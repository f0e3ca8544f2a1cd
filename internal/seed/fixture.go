package seed

import (
	_ "embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_fixture.yaml
var defaultFixture []byte

// Fixture is a YAML description of starter content.
type Fixture struct {
	Images       []ImageFixture       `yaml:"images"`
	Statistics   []StatisticFixture   `yaml:"statistics"`
	News         []NewsFixture        `yaml:"news"`
	Testimonials []TestimonialFixture `yaml:"testimonials"`
	HomePage     *HomePageFixture     `yaml:"home_page"`
}

// ImageFixture either points at a file or describes a solid placeholder.
type ImageFixture struct {
	Key    string `yaml:"key"`
	Title  string `yaml:"title"`
	File   string `yaml:"file"`
	Color  string `yaml:"color"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type StatisticFixture struct {
	IconName string `yaml:"icon_name"`
	Value    string `yaml:"value"`
	Label    string `yaml:"label"`
}

type NewsFixture struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Image   string `yaml:"image"`
	Excerpt string `yaml:"excerpt"`
	LinkURL string `yaml:"link_url"`
}

type TestimonialFixture struct {
	Quote string `yaml:"quote"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Image string `yaml:"image"`
}

// HomePageFixture holds the page and its body. Block values may reference
// images as "image:<key>".
type HomePageFixture struct {
	Title string         `yaml:"title"`
	Slug  string         `yaml:"slug"`
	Body  []BlockFixture `yaml:"body"`
}

type BlockFixture struct {
	Type  string         `yaml:"type"`
	Value map[string]any `yaml:"value"`
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("seed: parse fixture: %w", err)
	}

	seen := make(map[string]bool, len(fixture.Images))
	for i, img := range fixture.Images {
		key := strings.TrimSpace(img.Key)
		if key == "" {
			return nil, fmt.Errorf("seed: image %d has no key", i)
		}
		if seen[key] {
			return nil, fmt.Errorf("seed: duplicate image key %q", key)
		}
		seen[key] = true
	}
	return &fixture, nil
}

// DefaultFixture returns the embedded starter content.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads and parses path from fsys.
func LoadFixture(fsys fs.FS, path string) (*Fixture, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return ParseFixture(data)
}
