package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, info, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, info.FileFound)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
[server]
port = 9090

[import]
strict_binary = true
locator = "auto"

[export]
reconcile_before_export = true

[[aliases]]
alias = "Siemens Healthcare"
fornecedor = "SIEMENS"
`)

	cfg, info, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, info.FileFound)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Import.StrictBinary)
	assert.Equal(t, "auto", cfg.Import.Locator)
	assert.Equal(t, 20, cfg.Import.MaxUploadMB, "untouched keys keep their default")
	assert.True(t, cfg.Export.ReconcileBeforeExport)
	require.Len(t, cfg.Aliases, 1)
	assert.Equal(t, "SIEMENS", cfg.Aliases[0].Supplier)
}

func TestLoad_EnvironmentWinsOverFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "[log]\nlevel = \"warn\"\n")
	writeFile(t, dir, ".env", "RIR_LOCATOR=legacy\nRIR_LOG_LEVEL=error\n")
	t.Setenv("RIR_LOG_LEVEL", "DEBUG")
	t.Setenv("RIR_PORT", "7000")
	t.Setenv("RIR_STRICT_BINARY", "true")
	// godotenv exports RIR_LOCATOR into the process
	t.Cleanup(func() { _ = os.Unsetenv("RIR_LOCATOR") })

	cfg, info, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "legacy", cfg.Import.Locator)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Import.StrictBinary)
	assert.True(t, info.PortSpecified)
	assert.Contains(t, info.EnvOverrides, "RIR_LOCATOR")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "[import]\nlocator = \"magic\"\n")

	_, _, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Locator")
}

func TestLoad_RejectsMalformedEnv(t *testing.T) {
	t.Setenv("RIR_PORT", "oitenta")

	_, _, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RIR_PORT")
}

func TestValidate_AliasNeedsBothSides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Aliases = []AliasConfig{{Alias: "X"}}
	assert.Error(t, Validate(cfg))
}

func TestResolveDataDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/opt/app", "data"), ResolveDataDir(cfg, "/opt/app"))
	cfg.Data.DataDir = "/var/lib/rir"
	assert.Equal(t, "/var/lib/rir", ResolveDataDir(cfg, "/opt/app"))
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Import.Locator = "auto"
	cfg.Aliases = []AliasConfig{{Alias: "ACME LTDA", Supplier: "ACME"}}

	require.NoError(t, Save(dir, cfg))

	loaded, info, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, info.FileFound)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, "auto", loaded.Import.Locator)
	assert.Equal(t, cfg.Aliases, loaded.Aliases)
}
