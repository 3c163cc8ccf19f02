// Package output stores shell results next to the working directory.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ModeDecrypted = "decrypted"
	ModeEncrypted = "encrypted"
)

// Save пишет data в <baseDir>/<Mode>/<name>.json, где name — имя srcPath
// без расширения. Возвращает путь записанного файла.
func Save(baseDir, srcPath, mode, data string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("deriving output name from %q", srcPath)
	}

	dir := filepath.Join(baseDir, capitalize(mode))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return "", fmt.Errorf("writing output %s: %w", path, err)
	}
	return path, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
