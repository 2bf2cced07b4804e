// Package config loads the nixos-type-generator.yaml configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/spf13/viper"

	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/order"
)

const (
	// FileName is the configuration file name without extension.
	FileName = "nixos-type-generator"

	// EnvPrefix prefixes environment overrides, e.g. NIXGEN_ORDERING.
	EnvPrefix = "NIXGEN"
)

// Output formats of a root.
const (
	FormatModule  = "module"
	FormatFull    = "full"
	FormatOptions = "options"
	FormatType    = "type"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatModule, FormatFull, FormatOptions, FormatType}

var validate = validator.New()

// Config is the generator configuration.
type Config struct {
	// Packages are go/packages patterns to load.
	Packages []string `mapstructure:"packages" json:"packages" validate:"required,min=1,dive,required" jsonschema:"description=Go package patterns to load."`
	// Dir is the directory packages are loaded from.
	Dir string `mapstructure:"dir" json:"dir,omitempty" jsonschema:"description=Directory the package patterns are resolved in."`
	// BuildFlags are passed to the build system.
	BuildFlags []string `mapstructure:"build_flags" json:"build_flags,omitempty" jsonschema:"description=Flags passed to the Go build system."`
	// Ordering is the definition ordering policy.
	Ordering string `mapstructure:"ordering" json:"ordering,omitempty" validate:"omitempty,oneof=topological topo insertion insert" jsonschema:"enum=topological,enum=insertion,default=topological,description=Definition ordering policy."`
	// Roots are the types to compile.
	Roots []Root `mapstructure:"roots" json:"roots" validate:"required,min=1,dive" jsonschema:"description=Types to compile."`
	// Log configures logging.
	Log Log `mapstructure:"log" json:"log,omitempty"`
}

// Root is one type to compile.
type Root struct {
	// Type is "import/path.Name", "pkgname.Name" or a bare "Name".
	Type string `mapstructure:"type" json:"type" validate:"required" jsonschema:"description=Type to compile: import/path.Name or pkgname.Name or Name."`
	// Format selects the rendered output.
	Format string `mapstructure:"format" json:"format,omitempty" validate:"omitempty,oneof=module full options type" jsonschema:"enum=module,enum=full,enum=options,enum=type,default=module,description=Rendered output."`
	// OptionPath is where a module declares the root, e.g. services.app.
	OptionPath string `mapstructure:"option_path" json:"option_path,omitempty" validate:"required_if=Format module" jsonschema:"description=Option path declared by module output."`
	// Imports are Nix expressions listed in the imports of a module.
	Imports []string `mapstructure:"imports" json:"imports,omitempty" jsonschema:"description=Modules imported by module output."`
	// Config are lines of the config block of a module, applied when the option path is enabled.
	Config []string `mapstructure:"config" json:"config,omitempty" jsonschema:"description=Config lines of module output guarded by mkIf on the enable option."`
	// Output is the file written; empty writes to standard output.
	Output string `mapstructure:"output" json:"output,omitempty" jsonschema:"description=Output file. Standard output when empty."`
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=warn"`
	Format string `mapstructure:"format" json:"format,omitempty" validate:"omitempty,oneof=text logfmt json" jsonschema:"enum=text,enum=logfmt,enum=json,default=text"`
}

// Load reads the configuration. An empty path searches for
// nixos-type-generator.yaml in the working directory and tolerates its
// absence; an explicit path must exist. NIXGEN_* environment variables
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("dir", "")
	v.SetDefault("ordering", order.Topological.String())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: reading config file: %w", errs.ErrInvalidConfig, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling config: %w", errs.ErrInvalidConfig, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Roots {
		if c.Roots[i].Format == "" {
			c.Roots[i].Format = FormatModule
		}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	return nil
}

// Policy returns the ordering policy.
func (c *Config) Policy() (order.Policy, error) {
	return order.ParsePolicy(c.Ordering)
}

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	out, err := json.MarshalIndent(r.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrJSONMarshal, err)
	}

	return out, nil
}
