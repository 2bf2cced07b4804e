package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nixos-type-generator/internal/cli"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/export"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCmd("test")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "nixos-type-generator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "gen", "app.nix")

	cfg := writeConfig(t, dir, `packages:
  - nixos-type-generator/examples/basic
  - nixos-type-generator/examples/collections
roots:
  - type: basic.App
    option_path: services.app
    output: `+out+`
  - type: collections.Collections
    format: options
  - type: basic.Server
    option_path: services.server
    imports: [./hardware.nix]
    config:
      - networking.firewall.allowedTCPPorts = [ config.services.server.port ];
`)

	stdout, stderr, err := run(t, "generate", "--config", cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Generated by nixos-type-generator from nixos-type-generator/examples/basic.App. DO NOT EDIT.")
	assert.Contains(t, string(content), "options.services.app = {")

	assert.Contains(t, stdout, "tags = lib.mkOption {")
	assert.Contains(t, stdout, "{ config, lib, pkgs, ... }:\n")
	assert.Contains(t, stdout, "  imports = [\n    ./hardware.nix\n  ];\n")
	assert.Contains(t, stdout, "  config = mkIf config.services.server.enable {\n"+
		"    networking.firewall.allowedTCPPorts = [ config.services.server.port ];\n  };\n}\n")
	assert.Contains(t, stderr, "collections.Collections: warning: ")
	assert.Contains(t, stderr, "[NIX002]")
}

func TestGenerate_Strict(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), `packages: [nixos-type-generator/examples/enums]
roots:
  - type: enums.Logging
    format: full
`)

	_, _, err := run(t, "generate", "--config", cfg, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
}

func TestGenerate_AnnotationMisuse(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), `packages: [nixos-type-generator/examples/misuse, nixos-type-generator/examples/basic]
ordering: insertion
roots:
  - type: misuse.UnknownFlag
    format: full
  - type: basic.Server
    format: type
`)

	stdout, stderr, err := run(t, "generate", "--config", cfg)
	require.ErrorIs(t, err, errs.ErrAnnotation)
	assert.Contains(t, err.Error(), "misuse.UnknownFlag")
	assert.Contains(t, stdout, "# NixOS type definition for Server")
	assert.Contains(t, stderr, "misuse.UnknownFlag: error: misuse.UnknownFlag.Port: [NIX100]")
	assert.Contains(t, stderr, "  did you mean \"optional\"?\n")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "packages: []\n")

	_, _, err := run(t, "generate", "--config", cfg)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	cfg = writeConfig(t, t.TempDir(), `packages: [nixos-type-generator/examples/basic]
roots:
  - type: basic.Server
    format: full
`)

	_, _, err = run(t, "generate", "--config", cfg, "--ordering", "random")
	require.ErrorIs(t, err, errs.ErrInvalidArguments)
}

func TestDescribe(t *testing.T) {
	stdout, _, err := run(t, "describe", "-p", "nixos-type-generator/examples/basic", "basic.App")
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Types, 2)
	assert.Equal(t, "nixos-type-generator/examples/basic.Server", doc.Types[1].ID)
}

func TestConfigSchema(t *testing.T) {
	stdout, _, err := run(t, "config-schema")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"roots"`)
}

func TestVersionCmd(t *testing.T) {
	stdout, stderr, err := run(t, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
	assert.Empty(t, stderr)
}

func TestRootCmd_LogFormat(t *testing.T) {
	_, _, err := run(t, "version", "--log_format", "xml")
	require.ErrorIs(t, err, errs.ErrLogHandlerFailed)
	require.ErrorIs(t, err, errs.ErrInvalidArguments)
}

func TestGenerate_LogConfig(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), `packages: [nixos-type-generator/examples/basic]
log:
  level: debug
roots:
  - type: basic.Server
    format: type
`)

	_, stderr, err := run(t, "generate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "loaded packages")

	_, stderr, err = run(t, "generate", "--config", cfg, "--log_level", "warn")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "loaded packages")

	cfg = writeConfig(t, t.TempDir(), `packages: [nixos-type-generator/examples/basic]
log:
  format: xml
roots:
  - type: basic.Server
    format: type
`)

	_, _, err = run(t, "generate", "--config", cfg)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}
