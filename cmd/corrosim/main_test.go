package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corrosimBin is built once by TestMain.
var corrosimBin string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "corrosim-test-*")
	if err != nil {
		os.Exit(1)
	}
	corrosimBin = filepath.Join(tmpDir, "corrosim")

	cmd := exec.Command("go", "build", "-o", corrosimBin, ".")
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Stderr.Write(output)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

type result struct {
	stdout   string
	stderr   string
	exitCode int
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	cmd := exec.Command(corrosimBin, args...)
	cmd.Env = append(os.Environ(), "CORROSIM_CONFIG_DIR=", "CORROSIM_DATA_DIR=")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := result{stdout: stdout.String(), stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return res
}

func TestExitCodes(t *testing.T) {
	root := t.TempDir()
	base := []string{"--config-dir", filepath.Join(root, "config"), "--data-dir", filepath.Join(root, "data")}

	res := run(t, append(base, "init")...)
	require.Equal(t, 0, res.exitCode, res.stderr)

	record := `{"identifier": "model_garbatov2011", "title": "Garbatov 2011", "tags": ["uniform corrosion model"]}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "models", "garbatov.json"), []byte(record), 0o644))

	res = run(t, append(base, "eval", "model_garbatov2011", "--time", "1")...)
	assert.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Garbatov 2011")

	res = run(t, append(base, "eval", "model_garbatov2011", "--set", "T=99")...)
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "parameter validation failed")

	res = run(t, append(base, "eval", "model_missing")...)
	assert.Equal(t, 1, res.exitCode)

	res = run(t, "version")
	assert.Equal(t, 0, res.exitCode)
	assert.Contains(t, res.stdout, "corrosim v")
}
