package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/logging"
	"github.com/arthur-debert/deplink/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// keyDelim separates koanf key paths. Package names contain "." and "/",
// so neither can be used.
const keyDelim = "::"

// EnvPrefix prefixes environment overrides, e.g. DEPLINK_DEBOUNCE=250ms
const EnvPrefix = "DEPLINK_"

// PackageProp is the package.json key holding an embedded configuration
const PackageProp = "deplink"

// SearchPlaces are the file names tried, in order, in every directory
var SearchPlaces = []string{
	"package.json",
	".deplinkrc",
	".deplinkrc.json",
	".deplinkrc.yaml",
	".deplinkrc.yml",
	"deplink.config.json",
	"deplink.config.yaml",
	"deplink.config.yml",
	"deplink.config.toml",
}

// envKeys are the only keys environment variables may override
var envKeys = map[string]bool{
	"debounce":    true,
	"install_dir": true,
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// parserFor picks the koanf parser from a configuration file name
func parserFor(path string) (koanf.Parser, error) {
	base := filepath.Base(path)
	switch {
	case base == ".deplinkrc":
		// JSON is valid YAML, matching how rc files are usually read
		return yaml.Parser(), nil
	case strings.HasSuffix(base, ".json"):
		return json.Parser(), nil
	case strings.HasSuffix(base, ".yaml"), strings.HasSuffix(base, ".yml"):
		return yaml.Parser(), nil
	case strings.HasSuffix(base, ".toml"):
		return toml.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrConfigLoad, "unsupported configuration format: %s", base).
		WithDetail("path", path)
}

// Load reads the configuration file at path
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "invalid configuration path %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigNotFound, "configuration file %s does not exist", abs).
				WithDetail("path", abs)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", abs)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrConfigLoad, "configuration path %s is a directory", abs).
			WithDetail("path", abs)
	}

	fileK, err := readFile(abs)
	if err != nil {
		return nil, err
	}
	if fileK == nil {
		return nil, errors.Newf(errors.ErrConfigNotFound, "%s has no %q key", abs, PackageProp).
			WithDetail("path", abs)
	}
	return build(fileK, abs)
}

// Search looks for a configuration file from startDir upward, stopping
// after the home directory or at the filesystem root.
func Search(startDir string) (*Config, error) {
	home, _ := paths.DefaultHomeDir()
	return SearchFrom(startDir, home)
}

// SearchFrom is Search with an explicit directory to stop at. An empty
// stopDir searches up to the filesystem root.
func SearchFrom(startDir, stopDir string) (*Config, error) {
	logger := logging.GetLogger("config")

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "invalid search directory %s", startDir)
	}
	if stopDir != "" {
		stopDir = filepath.Clean(stopDir)
	}

	for {
		for _, name := range SearchPlaces {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			fileK, err := readFile(path)
			if err != nil {
				return nil, err
			}
			if fileK == nil {
				// a package.json without a deplink key is not a config
				continue
			}
			logger.Debug().Str("path", path).Msg("Found configuration")
			return build(fileK, path)
		}

		parent := filepath.Dir(dir)
		if dir == stopDir || parent == dir {
			break
		}
		dir = parent
	}

	return nil, errors.Newf(errors.ErrConfigNotFound, "no deplink configuration found from %s", startDir).
		WithDetail("searchPlaces", SearchPlaces)
}

// readFile parses one configuration file. A package.json without the
// deplink key yields nil and no error.
func readFile(path string) (*koanf.Koanf, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	if filepath.Base(path) == "package.json" {
		if !k.Exists(PackageProp) {
			return nil, nil
		}
		return k.Cut(PackageProp), nil
	}
	return k, nil
}

// build layers defaults, the file and the environment, then decodes and
// validates the result.
func build(fileK *koanf.Koanf, path string) (*Config, error) {
	k := koanf.New(keyDelim)

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}
	if err := k.Load(confmap.Provider(fileK.Raw(), keyDelim), nil); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to merge %s", path)
	}
	err := k.Load(env.Provider(EnvPrefix, keyDelim, func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !envKeys[key] {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid configuration in %s", path).
			WithDetail("path", path)
	}

	cfg.Path = path
	cfg.Dir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
