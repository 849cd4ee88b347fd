// Package archive reads selector documents bundled in zip files.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is called for every bundle entry visited by Walk with the entry
// name and its content. If an error is returned, processing stops.
type WalkFunc func(name string, r io.Reader) error

type Options struct {
	// CodePage is used to decode entry names not stored as UTF-8.
	CodePage encoding.Encoding
}

func WithCodePage(enc encoding.Encoding) func(*Options) {
	return func(o *Options) {
		o.CodePage = enc
	}
}

// Walk visits regular files of the bundle whose extension (compared case
// insensitively) is one of exts, all files when exts is empty, in the order
// they are stored. Entries with absolute paths or ".." components make the
// bundle invalid.
func Walk(bundle string, exts []string, walkFn WalkFunc, options ...func(*Options)) error {
	var opts Options
	for _, o := range options {
		o(&opts)
	}

	r, err := zip.OpenReader(bundle)
	if err != nil {
		return fmt.Errorf("unable to open bundle: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		name := entryName(f, opts.CodePage)
		if !isSafePath(name) {
			return fmt.Errorf("bundle entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !matchExt(name, exts) {
			continue
		}
		if err := visit(f, name, walkFn); err != nil {
			return err
		}
	}
	return nil
}

// entryName decodes legacy entry name, keeping it as is when decoding fails.
func entryName(f *zip.File, cp encoding.Encoding) string {
	if cp == nil || !f.NonUTF8 {
		return f.Name
	}
	if name, err := cp.NewDecoder().String(f.Name); err == nil {
		return name
	}
	return f.Name
}

func visit(f *zip.File, name string, walkFn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("bundle entry %q: %w", name, err)
	}
	defer rc.Close()
	return walkFn(name, rc)
}

func matchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := path.Ext(name)
	return slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) })
}

// isSafePath returns false for absolute paths and for those containing ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(name, "/"), "..")
}
