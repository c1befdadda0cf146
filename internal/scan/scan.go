// Package scan enumerates the input files of a batch.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WAVExt is matched case-insensitively against file names.
const WAVExt = ".wav"

// HasWAVExt reports whether name ends in ".wav" in any letter case.
func HasWAVExt(name string) bool {
	return len(name) >= len(WAVExt) && strings.EqualFold(name[len(name)-len(WAVExt):], WAVExt)
}

// WAVFiles lists the regular files in dir whose names end in ".wav".
// Symlinks are followed; subdirectories, pipes, sockets and devices are
// skipped. The returned paths are joined with dir and sorted by name.
func WAVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error scanning directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !HasWAVExt(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = info.Mode()
		}
		if !mode.IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
