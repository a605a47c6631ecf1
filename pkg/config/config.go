package config

import (
	"os"
	"strings"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/ngld/xbuild/pkg/xbuild"
)

// DefaultFile is loaded if it exists in the working directory and no other file was requested
const DefaultFile = "xbuild.toml"

// Config describes all configuration options
type Config struct {
	OSes         []string `default:"linux" toml:"oses" env:"OSES" usage:"Target operating systems (GOOS)"`
	Archs        []string `default:"arm64" toml:"archs" env:"ARCHS" usage:"Target architectures (GOARCH)"`
	Variants     []string `toml:"variants" env:"VARIANTS" usage:"Variants for variant-bearing architectures (GOMIPS); empty means no variant"`
	VariantArchs []string `default:"mips,mipsle" toml:"variant_archs" env:"VARIANT_ARCHS" usage:"Architectures that iterate over the variants"`
	VariantEnv   string   `default:"GOMIPS" toml:"variant_env" env:"VARIANT_ENV" usage:"Env var which receives the variant"`

	Output  string `default:"ip_changer" toml:"output" env:"OUTPUT" usage:"Base name of the generated binaries"`
	Source  string `default:"main.go" toml:"source" env:"SOURCE" usage:"Entry point passed to the build command"`
	Dir     string `default:"." toml:"dir" env:"DIR" usage:"Directory the build command runs in"`
	OutDir  string `toml:"out_dir" env:"OUT_DIR" usage:"Directory for the generated binaries (relative to dir)"`
	Command string `default:"go build -o \"$BUILD_OUTPUT\" \"$BUILD_SOURCE\"" toml:"command" env:"COMMAND" usage:"Shell command which builds a single target"`

	Compress string `toml:"compress" env:"COMPRESS" usage:"Compress each artifact after building it (xz or br)"`
	Report   string `toml:"report" env:"REPORT" usage:"Write a YAML report of the run to this file"`

	Debug bool `default:"false" toml:"debug" env:"DEBUG" usage:"Print every log field and full error traces"`

	Log struct {
		Level string `default:"info" toml:"level" env:"LEVEL"`
		JSON  bool   `default:"false" toml:"json" env:"JSON" usage:"Output JSONND instead of pretty console messages"`
	} `toml:"log" env:"LOG"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object.
// If file is empty, DefaultFile is used if it exists.
func Loader(file string) (*Config, *aconfig.Loader, error) {
	files := []string{}
	if file != "" {
		_, err := os.Stat(file)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "Failed to open config %s", file)
		}
		files = append(files, file)
	} else if _, err := os.Stat(DefaultFile); err == nil {
		files = append(files, DefaultFile)
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "XBUILD",
		SkipFlags: true,
		SkipFiles: len(files) == 0,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	}), nil
}

// Load is a shortcut for Loader() followed by Load()
func Load(file string) (*Config, error) {
	cfg, loader, err := Loader(file)
	if err != nil {
		return nil, err
	}

	err = loader.Load()
	if err != nil {
		return nil, eris.Wrap(err, "Failed to load config")
	}

	return cfg, nil
}

func checkList(name string, items []string, allowEmpty bool) error {
	if len(items) == 0 && !allowEmpty {
		return eris.Errorf(`%s must contain at least one entry`, name)
	}

	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return eris.Errorf(`%s must not contain empty entries`, name)
		}
	}

	return nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if err := checkList("oses", cfg.OSes, false); err != nil {
		return err
	}

	if err := checkList("archs", cfg.Archs, false); err != nil {
		return err
	}

	if err := checkList("variants", cfg.Variants, true); err != nil {
		return err
	}

	if err := checkList("variant_archs", cfg.VariantArchs, true); err != nil {
		return err
	}

	if cfg.VariantEnv == "" {
		return eris.New(`variant_env must not be empty`)
	}

	if cfg.Output == "" {
		return eris.New(`output must not be empty`)
	}

	if cfg.Source == "" {
		return eris.New(`source must not be empty`)
	}

	if _, err := xbuild.ParseCommand(cfg.Command); err != nil {
		return eris.Wrapf(err, `Invalid value for command`)
	}

	if cfg.Compress != "" {
		if _, ok := xbuild.CompressionFormats[cfg.Compress]; !ok {
			return eris.Errorf(`Invalid value for compress: %s (must be one of xz or br)`, cfg.Compress)
		}
	}

	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// Options converts the config into options for xbuild.Run
func (cfg *Config) Options() *xbuild.Options {
	return &xbuild.Options{
		Matrix: xbuild.Matrix{
			OSes:         cfg.OSes,
			Archs:        cfg.Archs,
			Variants:     cfg.Variants,
			VariantArchs: cfg.VariantArchs,
		},
		Dir:             cfg.Dir,
		Source:          cfg.Source,
		Output:          cfg.Output,
		OutDir:          cfg.OutDir,
		Command:         cfg.Command,
		VariantSelector: cfg.VariantEnv,
		Compress:        cfg.Compress,
	}
}
