package driver

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/doarr-lang/dcc/internal/ioutil"
)

// Tool is a resolved host-compiler executable: its configured name plus an
// opened, close-on-exec handle to the binary that was resolved. Launching
// through /proc/self/fd/<handle> rather than through Name again means the
// binary that actually executes is provably the one this process resolved
// and opened, even if PATH or the file at that path changes between resolve
// and invoke (SPEC_FULL.md §4.A's handle-based exec).
type Tool struct {
	Name   string
	handle *os.File
}

func ResolveTool(name string, pathDirs []string) (*Tool, error) {
	path, err := lookupOnPath(name, pathDirs)
	if err != nil {
		return nil, err
	}
	f, err := ioutil.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("resolve tool %q: %w", name, err)
	}
	return &Tool{Name: name, handle: f}, nil
}

func lookupOnPath(name string, pathDirs []string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}
	for _, dir := range pathDirs {
		candidate := dir + "/" + name
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}
	// fall through to the default PATH-based lookup so a bare name still
	// resolves normally when pathDirs doesn't contain it (e.g. pathDirs
	// came from a narrower -B-style override list)
	if resolved, err := exec.LookPath(name); err == nil {
		return resolved, nil
	}
	return "", fmt.Errorf("tool %q not found on PATH", name)
}

// Command builds an *exec.Cmd that runs this tool via its opened handle
// rather than its name, so a TOCTOU swap of the file at Name's path can't
// change which binary actually runs.
func (t *Tool) Command(args ...string) *exec.Cmd {
	execPath := "/proc/self/fd/" + strconv.FormatUint(uint64(t.handle.Fd()), 10)
	return exec.Command(execPath, args...)
}

func (t *Tool) Close() error {
	return t.handle.Close()
}
