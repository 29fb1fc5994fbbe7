package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestCmd parses args into the init command's flag set.
func initTestCmd(t *testing.T, out *bytes.Buffer, args ...string) *cobra.Command {
	t.Helper()
	initFlags = EngineFlags{}
	t.Cleanup(func() { initFlags = EngineFlags{} })

	cmd := newFlagCmd(t, &initFlags, args...)
	cmd.SetOut(out)
	return cmd
}

func TestInit_NonInteractiveDefaults(t *testing.T) {
	dir := isolate(t)

	var out bytes.Buffer
	err := Init(initTestCmd(t, &out), InitOptions{NonInteractive: true})
	require.NoError(t, err)

	path := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Contains(t, out.String(), "Created")
}

func TestInit_NonInteractiveFlags(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, "etc", "ctop.yaml")

	var out bytes.Buffer
	cmd := initTestCmd(t, &out, "--size", "16", "--template", "gpu%03d", "--transport", "exec")
	require.NoError(t, Init(cmd, InitOptions{Path: target, NonInteractive: true}))

	cfg, err := config.Load(target)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Fleet.Size)
	assert.Equal(t, "gpu%03d", cfg.Fleet.Template)
	assert.Equal(t, config.TransportExec, cfg.Transport.Kind)
	assert.Equal(t, []string{"rsh"}, cfg.Transport.Command)
}

func TestInit_ExistingFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o644))

	var out bytes.Buffer
	err := Init(initTestCmd(t, &out), InitOptions{NonInteractive: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, Init(initTestCmd(t, &out), InitOptions{NonInteractive: true, Overwrite: true}))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Workers, cfg.Workers)
}

func TestInit_InvalidFlagsNotWritten(t *testing.T) {
	dir := isolate(t)

	var out bytes.Buffer
	err := Init(initTestCmd(t, &out, "--template", "node"), InitOptions{NonInteractive: true})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}
