package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatOf picks the encoding from a file extension: .toml, .yaml or .yml.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads an AppConfig from path. Keys missing from the file keep their
// DefaultAppConfig values, and every window starts from DefaultWindowConfig.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - AppConfig: the decoded and validated config
//   - error: ErrUnsupportedFormat, a decode error, or ErrInvalidValue from validation
func Load(path string) (AppConfig, error) {
	format, err := FormatOf(path)
	if err != nil {
		return AppConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses an AppConfig from data in the given format and validates it.
func Decode(data []byte, format Format) (AppConfig, error) {
	var (
		cfg AppConfig
		err error
	)
	switch format {
	case FormatTOML:
		cfg, err = decodeTOML(data)
	case FormatYAML:
		cfg, err = decodeYAML(data)
	default:
		return AppConfig{}, ErrUnsupportedFormat
	}
	if err != nil {
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// tomlDocument mirrors AppConfig but defers window decoding so each window can
// be decoded on top of DefaultWindowConfig.
type tomlDocument struct {
	Backend     string           `toml:"backend"`
	ColorFormat string           `toml:"color_format"`
	DepthFormat string           `toml:"depth_format"`
	SampleCount uint32           `toml:"sample_count"`
	Device      DeviceConfig     `toml:"device"`
	Windows     []toml.Primitive `toml:"windows"`
}

func decodeTOML(data []byte) (AppConfig, error) {
	def := DefaultAppConfig()
	doc := tomlDocument{
		Backend:     def.Backend,
		ColorFormat: def.ColorFormat,
		DepthFormat: def.DepthFormat,
		SampleCount: def.SampleCount,
		Device:      def.Device,
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return AppConfig{}, err
	}
	cfg := AppConfig{
		Backend:     doc.Backend,
		ColorFormat: doc.ColorFormat,
		DepthFormat: doc.DepthFormat,
		SampleCount: doc.SampleCount,
		Device:      doc.Device,
	}
	for i, prim := range doc.Windows {
		w := DefaultWindowConfig()
		if err := md.PrimitiveDecode(prim, &w); err != nil {
			return AppConfig{}, fmt.Errorf("window %d: %w", i, err)
		}
		cfg.Windows = append(cfg.Windows, w)
	}
	return cfg, nil
}

func decodeYAML(data []byte) (AppConfig, error) {
	cfg := DefaultAppConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// UnmarshalYAML decodes a window on top of DefaultWindowConfig.
func (w *WindowConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain WindowConfig
	p := plain(DefaultWindowConfig())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*w = WindowConfig(p)
	return nil
}

// Save writes cfg to path, choosing the encoding from the extension.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file, created or truncated
//   - cfg: the config to write
//
// Returns:
//   - error: ErrUnsupportedFormat or an I/O error
func Save(path string, cfg AppConfig) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(cfg, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode serializes cfg in the given format.
func Encode(cfg AppConfig, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(cfg)
	default:
		return nil, ErrUnsupportedFormat
	}
}
