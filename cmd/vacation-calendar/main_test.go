package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/vacation-calendar/internal/booking"
)

func setupCLI(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := "storage:\n" +
		"  file: " + filepath.Join(dir, "vacaciones.csv") + "\n" +
		"  backup_file: " + filepath.Join(dir, "vacaciones_backup.csv") + "\n" +
		"log:\n" +
		"  level: error\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	buf := &bytes.Buffer{}
	prev := out
	out = buf
	t.Cleanup(func() { out = prev })
	return configFile, buf
}

func run(configFile string, args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", configFile}, args...))
	return cmd.Execute()
}

func TestAddAndList(t *testing.T) {
	configFile, buf := setupCLI(t)

	require.NoError(t, run(configFile, "add", "--name", "Juan", "--sector", "comercial", "--start", "2025-06-02"))
	assert.Contains(t, buf.String(), "2025-06-08")

	err := run(configFile, "add", "--name", "Pedro", "--sector", "COMERCIAL", "--start", "2025-06-05")
	require.Error(t, err)
	rej, ok := booking.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, booking.ReasonSectorOverlap, rej.Reason)

	buf.Reset()
	require.NoError(t, run(configFile, "list"))
	assert.Contains(t, buf.String(), "Juan")
	assert.Contains(t, buf.String(), "COMERCIAL")
	assert.NotContains(t, buf.String(), "Pedro")
}

func TestAddWeekendShift(t *testing.T) {
	configFile, buf := setupCLI(t)

	require.NoError(t, run(configFile, "add", "--name", "Ana", "--sector", "COMPRAS", "--start", "2025-06-21"))
	assert.Contains(t, buf.String(), "2025-06-23..2025-06-29")
	assert.Contains(t, buf.String(), "se movió al 2025-06-23")
}

func TestHolidays(t *testing.T) {
	configFile, buf := setupCLI(t)

	require.NoError(t, run(configFile, "holidays", "--year", "2025"))
	assert.Contains(t, buf.String(), "2025-05-01")
	assert.Contains(t, buf.String(), "2025-12-25")
}

func TestRender(t *testing.T) {
	configFile, _ := setupCLI(t)
	target := filepath.Join(t.TempDir(), "junio.pdf")

	require.NoError(t, run(configFile, "render", "--year", "2025", "--month", "6", "--format", "pdf", "--output", target))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	assert.Error(t, run(configFile, "render", "--format", "svg"))
}

func TestClearRequiresForce(t *testing.T) {
	configFile, buf := setupCLI(t)

	require.NoError(t, run(configFile, "add", "--name", "Juan", "--sector", "COMERCIAL", "--start", "2025-06-02"))
	assert.Error(t, run(configFile, "clear"))

	require.NoError(t, run(configFile, "clear", "--force"))
	buf.Reset()
	require.NoError(t, run(configFile, "list"))
	assert.Contains(t, buf.String(), "Sin registros.")
}

func TestMissingConfigFile(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.Error(t, err)
}
