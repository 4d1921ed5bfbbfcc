package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PageHandle is an opaque reference to one image inside the selected directory.
// Handles are immutable once enumerated.
type PageHandle interface {
	// Name is the sort key and the label shown to the user
	Name() string
	// Key identifies the page across directories (used as cache key)
	Key() string
	// ReadAll returns the complete contents; no partial reads
	ReadAll(ctx context.Context) ([]byte, error)
}

// Entry is one item of a directory listing: either a file or a nested directory
type Entry struct {
	Name   string
	IsFile bool
	Handle PageHandle // set when IsFile
	Dir    Directory  // set when !IsFile (sub directories and archives)
}

// Directory is an enumerable container of entries
type Directory interface {
	Name() string
	// Path is a location-qualified identifier, stable across sessions when possible
	Path() string
	Entries(ctx context.Context) ([]Entry, error)
}

func isSupportedExt(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// fsFile is a page stored as a regular file inside an fs.FS
type fsFile struct {
	fsys   fs.FS
	name   string
	path   string // path inside fsys
	origin string // human readable location of fsys
}

func (f *fsFile) Name() string { return f.name }

func (f *fsFile) Key() string { return f.origin + "|" + f.path }

func (f *fsFile) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := f.fsys.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return data, nil
}

// fsDirectory lists one directory of an fs.FS. Archives found in it are
// surfaced as nested directories so a library of .cbz files works like a
// library of folders.
type fsDirectory struct {
	fsys   fs.FS
	dir    string // "." for the root of fsys
	origin string
}

// NewPathDirectory opens a directory on the local filesystem
func NewPathDirectory(p string) Directory {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	return &fsDirectory{fsys: os.DirFS(abs), dir: ".", origin: abs}
}

// NewFSDirectory exposes dir inside fsys; origin names where fsys came from
func NewFSDirectory(fsys fs.FS, dir, origin string) Directory {
	return &fsDirectory{fsys: fsys, dir: dir, origin: origin}
}

func (d *fsDirectory) Name() string {
	if d.dir == "." || d.dir == "" {
		return filepath.Base(d.origin)
	}
	return path.Base(d.dir)
}

func (d *fsDirectory) Path() string {
	if d.dir == "." || d.dir == "" {
		return d.origin
	}
	return d.origin + "/" + d.dir
}

func (d *fsDirectory) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := fs.ReadDir(d.fsys, d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.Path(), err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		p := path.Join(d.dir, item.Name())
		switch {
		case item.IsDir():
			entries = append(entries, Entry{
				Name: item.Name(),
				Dir:  &fsDirectory{fsys: d.fsys, dir: p, origin: d.origin},
			})
		case isArchiveExt(item.Name()):
			entries = append(entries, Entry{
				Name: item.Name(),
				Dir:  newArchiveDirectory(d.fsys, p, d.origin),
			})
		default:
			entries = append(entries, Entry{
				Name:   item.Name(),
				IsFile: true,
				Handle: &fsFile{fsys: d.fsys, name: item.Name(), path: p, origin: d.origin},
			})
		}
	}
	return entries, nil
}
