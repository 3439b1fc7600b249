// Package production provides production integrations: run profiles stored
// on disk and a channel publisher for Graph notifications. Loaded profiles
// are always validated before they reach a Graph.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/bifurcx"
)

// Profile is a saved run configuration.
type Profile struct {
	Name     string           `json:"name" yaml:"name"`
	Mode     bifurcx.Mode     `json:"mode" yaml:"mode"`
	Lanes    int              `json:"lanes,omitempty" yaml:"lanes,omitempty"`
	Settings bifurcx.Settings `json:"settings" yaml:"settings"`
	SavedAt  time.Time        `json:"savedAt,omitempty" yaml:"savedAt,omitempty"`
}

// Validate checks the embedded settings.
func (p Profile) Validate() error {
	if p.Lanes < 0 {
		return fmt.Errorf("profile %q: lanes must not be negative", p.Name)
	}
	if err := p.Settings.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// Store persists profiles by name.
type Store interface {
	Save(ctx context.Context, p Profile) error
	Load(ctx context.Context, name string) (Profile, error)
	List(ctx context.Context) ([]string, error)
}

type codec struct {
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var (
	yamlCodec = codec{ext: ".yaml", marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}
	jsonCodec = codec{
		ext:       ".json",
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	}
)

// fileStore keeps one file per profile in dir.
type fileStore struct {
	dir   string
	codec codec
}

// YAMLStore is a file-based store using YAML serialization.
type YAMLStore struct{ fileStore }

// NewYAMLStore creates a YAMLStore, ensuring the directory exists.
func NewYAMLStore(dir string) (*YAMLStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLStore{fileStore{dir: dir, codec: yamlCodec}}, nil
}

// JSONStore is a file-based store using JSON serialization.
type JSONStore struct{ fileStore }

// NewJSONStore creates a JSONStore, ensuring the directory exists.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONStore{fileStore{dir: dir, codec: jsonCodec}}, nil
}

func (s fileStore) path(name string) string {
	return filepath.Join(s.dir, name+s.codec.ext)
}

func (s fileStore) Save(ctx context.Context, p Profile) error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now().UTC()
	}
	data, err := s.codec.marshal(p)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", strings.TrimPrefix(s.codec.ext, "."), err)
	}
	fn := s.path(p.Name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (s fileStore) Load(ctx context.Context, name string) (Profile, error) {
	fn := s.path(name)
	p, err := readFile(fn, s.codec)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, fmt.Errorf("profile %q: %w", name, os.ErrNotExist)
		}
		return Profile{}, err
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

func (s fileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != s.codec.ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), s.codec.ext))
	}
	sort.Strings(names)
	return names, nil
}

// LoadFile reads a single profile, picking the codec from the extension
// (.yaml, .yml or .json).
func LoadFile(path string) (Profile, error) {
	c, err := codecFor(path)
	if err != nil {
		return Profile{}, err
	}
	p, err := readFile(path, c)
	if err != nil {
		return Profile{}, err
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// SaveFile writes p to path, picking the codec from the extension.
func SaveFile(path string, p Profile) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := c.marshal(p)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec, nil
	case ".json":
		return jsonCodec, nil
	}
	return codec{}, fmt.Errorf("unsupported profile format %q", filepath.Ext(path))
}

func readFile(fn string, c codec) (Profile, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return Profile{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var p Profile
	if err := c.unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("%s unmarshal: %w", strings.TrimPrefix(c.ext, "."), err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("config validation after load: %w", err)
	}
	return p, nil
}
