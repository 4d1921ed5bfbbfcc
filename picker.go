package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// ErrPickCancelled is returned when the user dismisses directory selection.
// It is not a failure: callers leave their state untouched.
var ErrPickCancelled = errors.New("directory selection cancelled")

// DirectoryPicker asks the user for a directory
type DirectoryPicker interface {
	ChooseDirectory(ctx context.Context) (Directory, error)
}

// OpenPath returns a Directory for a local folder or comic archive
func OpenPath(p string) (Directory, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return NewPathDirectory(abs), nil
	}
	if isArchiveExt(abs) {
		parent := filepath.Dir(abs)
		return newArchiveDirectory(os.DirFS(parent), filepath.Base(abs), parent), nil
	}
	return nil, fmt.Errorf("%s is neither a directory nor a supported archive", p)
}

// PathPicker hands out a fixed path, typically from the command line
type PathPicker struct {
	Path string
}

func (p *PathPicker) ChooseDirectory(ctx context.Context) (Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, ErrPickCancelled
	}
	return OpenPath(p.Path)
}

// DropPicker waits for the user to drop a folder or archive onto the window.
// The UI goroutine feeds it through Offer and Cancel while ChooseDirectory
// blocks in a loader goroutine.
type DropPicker struct {
	mu      sync.Mutex
	waiting chan dropResult
}

type dropResult struct {
	dir Directory
	err error
}

// NewDropPicker creates an idle DropPicker
func NewDropPicker() *DropPicker {
	return &DropPicker{}
}

func (p *DropPicker) ChooseDirectory(ctx context.Context) (Directory, error) {
	ch := make(chan dropResult, 1)

	p.mu.Lock()
	if p.waiting != nil {
		// A newer request supersedes the pending one
		p.waiting <- dropResult{err: ErrPickCancelled}
	}
	p.waiting = ch
	p.mu.Unlock()

	select {
	case res := <-ch:
		return res.dir, res.err
	case <-ctx.Done():
		p.mu.Lock()
		if p.waiting == ch {
			p.waiting = nil
		}
		p.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Waiting reports whether a ChooseDirectory call is pending
func (p *DropPicker) Waiting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiting != nil
}

// Offer delivers dropped files to the pending request. The first dropped
// directory or archive wins; a drop of loose images opens the drop itself.
func (p *DropPicker) Offer(fsys fs.FS) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waiting == nil {
		return false
	}

	dir, err := directoryFromDrop(fsys)
	p.waiting <- dropResult{dir: dir, err: err}
	p.waiting = nil
	return true
}

// Cancel resolves the pending request with ErrPickCancelled
func (p *DropPicker) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waiting != nil {
		p.waiting <- dropResult{err: ErrPickCancelled}
		p.waiting = nil
	}
}

func directoryFromDrop(fsys fs.FS) (Directory, error) {
	items, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading dropped files: %w", err)
	}
	for _, item := range items {
		if item.IsDir() {
			return NewFSDirectory(fsys, item.Name(), "drop"), nil
		}
		if isArchiveExt(item.Name()) {
			return newArchiveDirectory(fsys, item.Name(), "drop"), nil
		}
	}
	for _, item := range items {
		if isSupportedExt(path.Base(item.Name())) {
			return NewFSDirectory(fsys, ".", "drop"), nil
		}
	}
	return nil, ErrPickCancelled
}
