package ioutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// suffixLen is the width of the base-26 monotonic counter minted into every
// temp path (SPEC_FULL.md §4.H). 13 lowercase letters give 26^13 distinct
// names per process lifetime, which is effectively inexhaustible for a single
// build or a single long-running host process.
const suffixLen = 13

// TempDir mints short, unique paths inside one base directory and guarantees
// the whole directory is removed when the owning process goes away, even if
// it crashes or is killed -9. Not safe for concurrent callers (SPEC_FULL.md §5).
type TempDir struct {
	base   string
	suffix [suffixLen]byte

	cleanupWrite *os.File
	cleanupCmd   *exec.Cmd
}

// NewTempDir creates a fresh directory under parentDir (sysTmp or the
// configured TMP) and arms its cleanup sidecar. namePrefix is e.g. "dcc." for
// the build driver or "doarr." for the runtime engine, matching §6's naming.
func NewTempDir(parentDir string, namePrefix string) (*TempDir, error) {
	dir, err := os.MkdirTemp(parentDir, namePrefix)
	if err != nil {
		return nil, fmt.Errorf("create temp dir under %q: %w", parentDir, err)
	}

	td := &TempDir{base: dir}
	for i := range td.suffix {
		td.suffix[i] = 'a'
	}

	if err := td.armCleanupSidecar(); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	return td, nil
}

// armCleanupSidecar starts a detached `sh` whose stdin is the read end of a
// pipe this process alone holds the write end of. The sidecar blocks on that
// read until end-of-file, which the kernel delivers the instant every
// process holding the write end exits — by any path, including a crash or an
// external kill. On EOF the sidecar execs `rm -rf` on the directory.
//
// This is the same guarantee the original doarr runtime gets from a raw
// fork()+execve() sidecar (see original_source/runtime/io.c), rendered with
// os/exec instead of a manual fork: only Stdin is handed to the child, so the
// write end never leaks into it, and the parent simply never closes it itself.
func (td *TempDir) armCleanupSidecar() error {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("cleanup sidecar pipe: %w", err)
	}

	cmd := exec.Command("/bin/sh", "-c", `cat >/dev/null 2>&1; exec rm -rf -- "$0"`, td.base)
	cmd.Stdin = r
	if err := cmd.Start(); err != nil {
		_ = r.Close()
		_ = w.Close()
		return fmt.Errorf("start cleanup sidecar: %w", err)
	}
	_ = r.Close() // the child has its own copy; ours is no longer needed

	td.cleanupWrite = w
	td.cleanupCmd = cmd
	// td.cleanupWrite is deliberately never closed by a cleanup path other
	// than process exit: that close is the cleanup signal itself.
	return nil
}

// Base returns the temp directory's path.
func (td *TempDir) Base() string {
	return td.base
}

// MintPath returns a new unique path under the temp directory with the given
// extension (e.g. ".cxx", ".gch", ""), then advances the base-26 counter.
func (td *TempDir) MintPath(ext string) string {
	name := string(td.suffix[:]) + ext
	td.advance()
	return filepath.Join(td.base, name)
}

// advance increments the base-26 suffix, carrying left on a run of 'z's.
// Overflowing past the first digit means every one of 26^13 names in this
// temp dir has been minted — a resource-exhaustion condition with no
// sensible recovery, so this aborts the process exactly as the C
// implementation it's grounded on does.
func (td *TempDir) advance() {
	for i := suffixLen - 1; i >= 0; i-- {
		if td.suffix[i] != 'z' {
			td.suffix[i]++
			return
		}
		td.suffix[i] = 'a'
	}
	panic("dcc: temp path suffix space exhausted")
}

// RemoveSync removes the temp directory immediately and disarms the sidecar
// (its rm -rf would now race an empty or reused directory name). Callers that
// exit normally should still call this for prompt cleanup; the sidecar exists
// to catch every path that doesn't.
func (td *TempDir) RemoveSync() error {
	err := os.RemoveAll(td.base)
	if td.cleanupCmd != nil && td.cleanupCmd.Process != nil {
		_ = td.cleanupCmd.Process.Kill()
		_ = td.cleanupCmd.Wait()
	}
	if td.cleanupWrite != nil {
		_ = td.cleanupWrite.Close()
		td.cleanupWrite = nil
	}
	return err
}
