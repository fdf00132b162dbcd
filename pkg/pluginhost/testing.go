package pluginhost

import (
	"fmt"
	"os"
	"path/filepath"
)

// NewFakeOpenFunc builds an OpenFunc that looks up an already-constructed
// fake Library (see NewFakeLibrary) by the exact path it is asked to
// open. Exported so a host embedding this package can drive its own
// Monitor/Loader tests end to end without ever invoking
// `go build -buildmode=plugin`.
func NewFakeOpenFunc(libs map[string]Library) OpenFunc {
	return func(path string) (Library, error) {
		if lib, ok := libs[path]; ok {
			return lib, nil
		}
		return nil, fmt.Errorf("no fake library registered for %s", path)
	}
}

// TouchFakeLibrary creates an empty "<name>.so" file under dir and
// returns its path, standing in for a compiled plugin in binary-mode
// Monitor scans: the scan only inspects file names and extensions, the
// actual bytes are never read since OpenFunc is substituted in tests.
func TouchFakeLibrary(dir, name string) (string, error) {
	path := filepath.Join(dir, name+".so")
	return path, os.WriteFile(path, []byte{}, 0o644)
}

// WriteFilterFile writes an allow.ini/block.ini-style plain newline list
// of plugin names to path. The parent directory must already exist.
func WriteFilterFile(path string, names ...string) error {
	content := ""
	for _, n := range names {
		content += n + "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
