// Package ioutil collects the low-level process and file primitives shared by
// the build driver and the runtime specialization engine: opening files with
// the exact flags the rest of the system needs, memory-mapped reads, and
// draining writes to a pipe. See DESIGN.md for the fd-scoped,
// error-path-conscious style this is grounded on, generalized from
// os/exec-only process launching to the golang.org/x/sys/unix primitives
// this domain actually needs (O_CLOEXEC / O_EXCL / O_NOFOLLOW opens,
// anonymous pipes, mmap).
package ioutil

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenReadOnly opens path for reading with O_CLOEXEC, so the descriptor never
// leaks into a forked host-compiler child by accident.
func OpenReadOnly(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return os.NewFile(uintptr(fd), path), nil
}

// CreateExclusive creates path with O_CREAT|O_EXCL|O_NOFOLLOW|O_CLOEXEC at the
// given mode. Every temp file this system writes itself (the generated source,
// the extracted PCH, the wrapper .cxx; the compiled .so and the driver's
// precompiled header are written by the host compiler) is created this way:
// a name collision is a logic error, and a symlink planted at that path by
// another process on the same host must never be silently followed.
func CreateExclusive(path string, mode uint32) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_NOFOLLOW|unix.O_CLOEXEC, mode)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", path, err)
	}
	return os.NewFile(uintptr(fd), path), nil
}

// MappedFile is a read-only memory mapping of a file's full contents. The
// empty-file case is represented by a nil Data slice rather than a failed
// mmap (mmap of a zero-length file is an error on every platform this system
// targets), so callers can unmap unconditionally.
type MappedFile struct {
	Data []byte
}

// ReadFileMapped memory-maps path read-only. Used by the artifact generator
// (SPEC_FULL.md §4.D step 8) to read back a guest file's PCH bytes, which it
// then copies into a []byte, and each generated source it concatenates.
func ReadFileMapped(path string) (*MappedFile, error) {
	f, err := OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	size := st.Size()
	if size == 0 {
		return &MappedFile{Data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %q: %w", path, err)
	}
	return &MappedFile{Data: data}, nil
}

// Close unmaps the file. A no-op for the empty-file sentinel.
func (m *MappedFile) Close() error {
	if m.Data == nil {
		return nil
	}
	return unix.Munmap(m.Data)
}

// WriteAll loops until every byte of data has been accepted by fd, since a
// single write(2) may deliver a short write even on a regular file when
// interrupted by a signal.
func WriteAll(f *os.File, data []byte) error {
	for len(data) > 0 {
		n, err := f.Write(data)
		if err != nil {
			return fmt.Errorf("write %q: %w", f.Name(), err)
		}
		if n == 0 {
			return fmt.Errorf("write %q: zero-length write", f.Name())
		}
		data = data[n:]
	}
	return nil
}

// Pipe2CloExec creates an anonymous pipe with both ends close-on-exec, used to
// connect a preprocessor child's stdout to the export scanner without a
// temporary file.
func Pipe2CloExec() (r, w *os.File, err error) {
	var fds [2]int
	if err = unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, nil, fmt.Errorf("pipe2: %w", err)
	}
	return os.NewFile(uintptr(fds[0]), "|0"), os.NewFile(uintptr(fds[1]), "|1"), nil
}
