package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dbdcrypt/internal/codec"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dbdcrypt.yaml")
	yml := "static_keys: true\nkey_feed:\n  enabled: false\noutput_dir: " + filepath.Join(dir, "Output") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &out
	a.Reader = strings.NewReader(stdin)
	err := a.RunContext(context.Background(), append([]string{"dbdcrypt"}, args...))
	return out.String(), err
}

func TestCLI_EncryptDecryptFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	in := filepath.Join(dir, "GetAll.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"a":1}`), 0o644))

	out, err := runCLI(t, "", "--config", cfg, "encrypt", "--key", "8.4.0_live", "--in", in)
	require.NoError(t, err)
	encPath := filepath.Join(dir, "Output", "Encrypted", "GetAll.json")
	assert.Contains(t, out, encPath)

	enc, err := os.ReadFile(encPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(enc), "DbdDAwAC"))

	_, err = runCLI(t, "", "--config", cfg, "decrypt", "--branch", "live", "--in", encPath)
	require.NoError(t, err)

	dec, err := os.ReadFile(filepath.Join(dir, "Output", "Decrypted", "GetAll.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(dec))
}

func TestCLI_DecryptStdinPretty(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := runCLI(t, `{"b":[1]}`, "--config", cfg, "decrypt", "-b", "s", "--data", "-", "--pretty")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"b\": [\n        1\n    ]\n}\n", out)
}

func TestCLI_Errors(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	_, err := runCLI(t, "", "--config", cfg, "decrypt", "--branch", "prod", "--data", "{}")
	require.Error(t, err)

	_, err = runCLI(t, "", "--config", cfg, "decrypt", "--branch", "live")
	require.Error(t, err)

	_, err = runCLI(t, "", "--config", cfg, "decrypt", "--branch", "live", "--data", "garbage")
	require.Error(t, err)

	_, err = runCLI(t, "", "--config", cfg, "encrypt", "--key", "1.0.0_live", "--data", "{}")
	require.Error(t, err)
}

func TestCLI_EncryptRefusesEncryptedInput(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	encoded, err := runCLI(t, "", "--config", cfg, "encrypt", "--key", "8.4.0_live", "--data", `{"a":1}`)
	require.NoError(t, err)
	encoded = strings.TrimSpace(encoded)
	require.True(t, strings.HasPrefix(encoded, "DbdDAwAC"))

	_, err = runCLI(t, encoded, "--config", cfg, "encrypt", "--key", "8.4.0_live", "--data", "-")
	require.ErrorIs(t, err, codec.ErrAlreadyEncoded)

	in := filepath.Join(dir, "GetAll.txt")
	require.NoError(t, os.WriteFile(in, []byte(encoded), 0o644))
	_, err = runCLI(t, "", "--config", cfg, "encrypt", "--key", "8.4.0_live", "--in", in)
	require.ErrorIs(t, err, codec.ErrAlreadyEncoded)
	assert.NoFileExists(t, filepath.Join(dir, "Output", "Encrypted", "GetAll.json"))
}

func TestCLI_KeysAndBranches(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := runCLI(t, "", "--config", cfg, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "8.4.0_live\n")
	assert.Contains(t, out, "8.4.0_qa\n")

	out, err = runCLI(t, "", "branches")
	require.NoError(t, err)
	assert.Contains(t, out, "ptb")
	assert.Contains(t, out, "Player Test Build")
}
