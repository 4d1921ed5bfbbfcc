package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

type archiveFormat int

const (
	archiveUnknown archiveFormat = iota
	archiveZip
	archiveRar
	archive7z
)

func archiveFormatOf(p string) archiveFormat {
	switch strings.ToLower(path.Ext(p)) {
	case ".zip", ".cbz":
		return archiveZip
	case ".rar", ".cbr":
		return archiveRar
	case ".7z", ".cb7":
		return archive7z
	default:
		return archiveUnknown
	}
}

func isArchiveExt(p string) bool {
	return archiveFormatOf(p) != archiveUnknown
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openArchive returns random access to an archive stored in fsys. Files that
// cannot seek (dropped files on some platforms) are buffered in memory.
func openArchive(fsys fs.FS, p string) (io.ReaderAt, int64, io.Closer, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, 0, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, nil, err
	}
	if ra, ok := f.(io.ReaderAt); ok {
		return ra, info.Size(), f, nil
	}

	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, 0, nil, fmt.Errorf("reading archive %s: %w", p, err)
	}
	return bytes.NewReader(data), int64(len(data)), nopCloser{}, nil
}

// archiveDirectory exposes the images of a comic archive as a flat directory.
// The archive is reopened for every read so no file stays open between pages.
type archiveDirectory struct {
	fsys   fs.FS
	path   string
	origin string
	format archiveFormat
}

func newArchiveDirectory(fsys fs.FS, p, origin string) *archiveDirectory {
	return &archiveDirectory{fsys: fsys, path: p, origin: origin, format: archiveFormatOf(p)}
}

func (a *archiveDirectory) Name() string { return path.Base(a.path) }

func (a *archiveDirectory) Path() string {
	if a.path == "." {
		return a.origin
	}
	return a.origin + "/" + a.path
}

func (a *archiveDirectory) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		names []string
		err   error
	)
	switch a.format {
	case archiveZip:
		names, err = a.listZip()
	case archiveRar:
		names, err = a.listRar()
	case archive7z:
		names, err = a.list7z()
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", path.Ext(a.path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to process archive %s: %w", a.Path(), err)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{
			Name:   name,
			IsFile: true,
			Handle: &archiveEntry{archive: a, entry: name},
		})
	}
	return entries, nil
}

func (a *archiveDirectory) listZip() ([]string, error) {
	ra, size, closer, err := openArchive(a.fsys, a.path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	r, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func (a *archiveDirectory) listRar() ([]string, error) {
	f, err := a.fsys.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			names = append(names, header.Name)
		}
	}
	return names, nil
}

func (a *archiveDirectory) list7z() ([]string, error) {
	ra, size, closer, err := openArchive(a.fsys, a.path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	r, err := sevenzip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// archiveEntry is one page inside an archive
type archiveEntry struct {
	archive *archiveDirectory
	entry   string
}

func (e *archiveEntry) Name() string { return e.entry }

func (e *archiveEntry) Key() string { return e.archive.Path() + ":" + e.entry }

func (e *archiveEntry) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch e.archive.format {
	case archiveZip:
		return e.readZip()
	case archiveRar:
		return e.readRar()
	case archive7z:
		return e.read7z()
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", path.Ext(e.archive.path))
	}
}

func (e *archiveEntry) readZip() ([]byte, error) {
	ra, size, closer, err := openArchive(e.archive.fsys, e.archive.path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	r, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	for _, f := range r.File {
		if f.Name == e.entry {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", e.entry, e.archive.Path())
}

func (e *archiveEntry) readRar() ([]byte, error) {
	f, err := e.archive.fsys.Open(e.archive.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == e.entry {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", e.entry, e.archive.Path())
}

func (e *archiveEntry) read7z() ([]byte, error) {
	ra, size, closer, err := openArchive(e.archive.fsys, e.archive.path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	r, err := sevenzip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	for _, f := range r.File {
		if f.Name == e.entry {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", e.entry, e.archive.Path())
}
