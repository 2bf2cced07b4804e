package render

import (
	"fmt"
	"os"
	"path/filepath"

	"nixos-type-generator/internal/errs"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFile writes rendered text to path, creating parent directories.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("%w: creating directory %s: %w", errs.ErrWriteFile, dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrWriteFile, path, err)
	}

	return nil
}
