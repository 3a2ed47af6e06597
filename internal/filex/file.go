// Package filex holds small filesystem helpers used by the terminal client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ExportFileName names a downloaded export after the owner and the time it
// was taken, e.g. "alice-20260101-150405.json".
func ExportFileName(username string, unixSec int64) string {
	return fmt.Sprintf("%s-%s.json", username, time.Unix(unixSec, 0).UTC().Format("20060102-150405"))
}
