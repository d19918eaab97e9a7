// Package vfs defines the output filesystem contract the C backend writes
// through (spec.md §6 "Output: virtual filesystem", §5 "Output I/O is
// mediated through a virtual filesystem abstraction"). The real filesystem
// is an out-of-scope collaborator per spec.md §1; this package supplies the
// minimal contract plus two implementations: an in-memory one for tests and
// tooling, and an OS-backed one for the CLI driver.
package vfs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FS is the contract the emitter depends on: create_file, open_for_write,
// create_dir, write_bytes, close (spec.md §6). Files are opened in
// create-truncate mode and the emitter never re-opens or seeks a file
// (spec.md §5).
type FS interface {
	CreateDir(path string) error
	CreateFile(path string) error
	OpenForWrite(path string) (File, error)
}

// File is a single opened output file (spec.md §5: "it does not re-open or
// seek files"). Memory applies each Write immediately; OS buffers writes in
// memory until OS.Flush, and its Close does nothing.
type File interface {
	Write(p []byte) (int, error)
	Close() error
}

// Memory is an in-memory FS, used by tests and by the CLI driver when the
// config sets no output directory.
type Memory struct {
	mu    sync.Mutex
	files map[string]*bytes.Buffer
	dirs  map[string]bool
}

var _ FS = (*Memory)(nil)

// NewMemory returns an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string]*bytes.Buffer),
		dirs:  make(map[string]bool),
	}
}

// CreateDir implements FS.
func (m *Memory) CreateDir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

// CreateFile implements FS.
func (m *Memory) CreateFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = new(bytes.Buffer)
	return nil
}

// OpenForWrite implements FS.
func (m *Memory) OpenForWrite(path string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.files[path]
	if !ok {
		buf = new(bytes.Buffer)
		m.files[path] = buf
	}
	return &memFile{m: m, path: path}, nil
}

// ReadFile returns the current contents of path, for assertions in tests.
func (m *Memory) ReadFile(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), buf.Bytes()...), true
}

// Paths returns every file path created, sorted, for deterministic test
// assertions over the emitter's output-path list (spec.md §8 idempotence
// properties).
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type memFile struct {
	m    *Memory
	path string
}

func (f *memFile) Write(p []byte) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	buf, ok := f.m.files[f.path]
	if !ok {
		return 0, fmt.Errorf("vfs: write to unopened file %q", f.path)
	}
	return buf.Write(p)
}

func (f *memFile) Close() error { return nil }

// OS is a filesystem rooted at a directory on disk, used by the CLI
// driver. Its Flush helper parallelizes the independent writes of a
// per-module layout with golang.org/x/sync/errgroup (SPEC_FULL.md §1
// "Concurrent output flush"): every byte to write has already been computed
// single-threadedly, so writing N independent files is safe to fan out.
type OS struct {
	Root string

	mu      sync.Mutex
	pending map[string][]byte
}

var _ FS = (*OS)(nil)

// NewOS returns a filesystem rooted at root. The root directory is created
// lazily by the first CreateDir/CreateFile call.
func NewOS(root string) *OS {
	return &OS{Root: root, pending: make(map[string][]byte)}
}

// CreateDir implements FS.
func (o *OS) CreateDir(path string) error {
	return os.MkdirAll(filepath.Join(o.Root, path), 0o755)
}

// CreateFile implements FS.
func (o *OS) CreateFile(path string) error {
	dir := filepath.Dir(filepath.Join(o.Root, path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[path] = nil
	return nil
}

// OpenForWrite implements FS. Bytes are buffered in memory and only
// actually written to disk by Flush, so that writes for independent files
// can be parallelized without each holding its own OS file handle open for
// the duration of SSA emission.
func (o *OS) OpenForWrite(path string) (File, error) {
	return &osFile{o: o, path: path}, nil
}

// Flush writes every buffered file to disk, one goroutine per file with no
// limit on how many run at once.
func (o *OS) Flush() error {
	o.mu.Lock()
	paths := make([]string, 0, len(o.pending))
	for p := range o.pending {
		paths = append(paths, p)
	}
	o.mu.Unlock()

	var g errgroup.Group
	for _, p := range paths {
		p := p
		g.Go(func() error {
			o.mu.Lock()
			data := o.pending[p]
			o.mu.Unlock()
			return os.WriteFile(filepath.Join(o.Root, p), data, 0o644)
		})
	}
	return g.Wait()
}

type osFile struct {
	o    *OS
	path string
}

func (f *osFile) Write(p []byte) (int, error) {
	f.o.mu.Lock()
	defer f.o.mu.Unlock()
	f.o.pending[f.path] = append(f.o.pending[f.path], p...)
	return len(p), nil
}

func (f *osFile) Close() error { return nil }
