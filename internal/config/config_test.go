package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/order"
)

const sample = `packages:
  - ./examples/basic
  - ./examples/enums
ordering: insertion
roots:
  - type: basic.App
    option_path: services.app
    output: gen/app.nix
    imports: [./base.nix]
    config:
      - environment.systemPackages = [ pkgs.app ];
  - type: enums.Logging
    format: full
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"./examples/basic", "./examples/enums"}, cfg.Packages)
	require.Len(t, cfg.Roots, 2)
	assert.Equal(t, Root{
		Type:       "basic.App",
		Format:     FormatModule,
		OptionPath: "services.app",
		Output:     "gen/app.nix",
		Imports:    []string{"./base.nix"},
		Config:     []string{"environment.systemPackages = [ pkgs.app ];"},
	}, cfg.Roots[0])
	assert.Equal(t, FormatFull, cfg.Roots[1].Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, order.Insertion, policy)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NIXGEN_ORDERING", "topological")
	t.Setenv("NIXGEN_LOG_FORMAT", "json")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "topological", cfg.Ordering)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"no roots":            "packages: [./x]\n",
		"no packages":         "roots:\n  - type: a.B\n    format: full\n",
		"module without path": "packages: [./x]\nroots:\n  - type: a.B\n",
		"unknown format":      "packages: [./x]\nroots:\n  - type: a.B\n    format: html\n",
		"unknown ordering":    "packages: [./x]\nordering: random\nroots:\n  - type: a.B\n    format: full\n",
		"malformed":           "packages: [\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestLoad_DefaultFileOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	// absence is tolerated, the empty configuration then fails validation
	_, err := Load("")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Packages")
	assert.NotContains(t, err.Error(), "reading config file")
}

func TestSchema(t *testing.T) {
	out, err := Schema()
	require.NoError(t, err)

	schema := string(out)
	assert.Contains(t, schema, `"option_path"`)
	assert.Contains(t, schema, `"packages"`)
	assert.Contains(t, schema, `"insertion"`)
}
