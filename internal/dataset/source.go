// internal/dataset/source.go
package dataset

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"campaign-builder/datasets"
)

// PointerDocument names the file holding the active dataset pointer.
const PointerDocument = "active.json"

// Source reads dataset documents. Implementations must be safe for
// concurrent use.
type Source interface {
	ReadDocument(ctx context.Context, dataset, doc string) ([]byte, error)
	ReadPointer(ctx context.Context) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// FSSource reads datasets laid out as <root>/<name>/<doc>.json with the
// pointer document at <root>/active.json.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Bundled returns the datasets compiled into the binary.
func Bundled() *FSSource {
	return NewFSSource(datasets.FS)
}

// NewDirSource reads datasets from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

func (s *FSSource) ReadDocument(_ context.Context, dataset, doc string) ([]byte, error) {
	p := path.Join(dataset, doc)
	if !fs.ValidPath(p) || path.Dir(p) != dataset {
		return nil, fmt.Errorf("invalid document path %q", p)
	}
	return fs.ReadFile(s.fsys, p)
}

func (s *FSSource) ReadPointer(_ context.Context) ([]byte, error) {
	return fs.ReadFile(s.fsys, PointerDocument)
}

// List returns the names of directories that contain a config document.
func (s *FSSource) List(_ context.Context) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := fs.Stat(s.fsys, path.Join(e.Name(), "config.json")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
