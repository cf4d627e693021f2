package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ManifestName is the file recording what the last generator run wrote
// into an output directory.
const ManifestName = "chimney.manifest"

const lockName = ".chimney.lock"

// WriteFiles writes all generated files to the output directory under
// an exclusive lock, so concurrent runs over one directory do not
// interleave. Files the previous run's manifest lists but this run did
// not produce are removed, and the manifest is rewritten.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	lock := flock.New(filepath.Join(outputDir, lockName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking output directory: %w", err)
	}
	defer lock.Unlock()

	stale := previousFiles(outputDir)
	names := make([]string, 0, len(files))

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		names = append(names, file.Filename)
		delete(stale, file.Filename)
	}

	for name := range stale {
		err := os.Remove(filepath.Join(outputDir, name))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale file %s: %w", name, err)
		}
	}

	sort.Strings(names)

	manifest := strings.Join(names, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(outputDir, ManifestName), []byte(manifest), filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", ManifestName, err)
	}

	return nil
}

// previousFiles reads the last run's manifest. A missing or unreadable
// manifest means nothing to clean. Entries naming anything outside the
// directory are ignored.
func previousFiles(dir string) map[string]bool {
	out := make(map[string]bool)

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return out
	}

	for _, line := range strings.Split(string(data), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.ContainsAny(name, `/\`) {
			continue
		}

		out[name] = true
	}

	return out
}
