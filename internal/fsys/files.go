package fsys

import (
	"strings"
)

// FindFile looks for a file with the given name (case-insensitive) in the
// specified directory. Returns the actual path with correct case if found,
// empty string if not found.
func FindFile(filesystem FileSystem, dir, filename string) (string, error) {
	for entry, err := range filesystem.ReadDir(dir) {
		if err != nil {
			return "", err
		}

		if entry.IsDir() {
			continue
		}

		if strings.EqualFold(entry.Name(), filename) {
			return filesystem.Join(dir, entry.Name()), nil
		}
	}

	return "", nil
}
