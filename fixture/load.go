package fixture

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"geocss/archive"
)

// Extensions of files holding selector documents.
var Extensions = []string{".yaml", ".yml"}

// Loader reads selector documents from files, directories and zip bundles.
type Loader struct {
	log      *zap.Logger
	codePage encoding.Encoding
}

func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log.Named("fixture")}
}

// SetCodePage forces encoding for bundle entry names not stored as UTF-8,
// nil restores the default.
func (l *Loader) SetCodePage(enc encoding.Encoding) {
	l.codePage = enc
}

// Load reads documents from source. Directories are walked recursively and
// their files visited in natural order, zip bundles in stored order. Bundles
// are recognized by extension or by content.
func (l *Loader) Load(source string) ([]*Document, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("unable to access source: %w", err)
	}

	var docs []*Document
	switch {
	case info.IsDir():
		docs, err = l.loadDir(source)
	case strings.EqualFold(filepath.Ext(source), ".zip") || isBundle(source):
		docs, err = l.loadBundle(source)
	default:
		docs, err = l.loadFile(source)
	}
	if err != nil {
		return nil, err
	}
	l.log.Debug("Documents loaded", zap.String("source", source), zap.Int("count", len(docs)))
	return docs, nil
}

func (l *Loader) loadFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open document: %w", err)
	}
	defer f.Close()
	return Decode(path, f)
}

func (l *Loader) loadDir(dir string) ([]*Document, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to walk directory: %w", err)
	}
	sort.Sort(natural.StringSlice(files))

	var docs []*Document
	for _, file := range files {
		loaded, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

func (l *Loader) loadBundle(bundle string) ([]*Document, error) {
	var docs []*Document
	var options []func(*archive.Options)
	if l.codePage != nil {
		options = append(options, archive.WithCodePage(l.codePage))
	}
	err := archive.Walk(bundle, Extensions, func(name string, r io.Reader) error {
		loaded, err := Decode(bundle+"/"+name, r)
		if err != nil {
			return err
		}
		l.log.Debug("Bundle entry decoded", zap.String("entry", name), zap.Int("count", len(loaded)))
		docs = append(docs, loaded...)
		return nil
	}, options...)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func isDocument(path string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(Extensions, func(e string) bool { return strings.EqualFold(e, ext) })
}

// isBundle sniffs file header for zip signature.
func isBundle(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 262)
	n, _ := io.ReadFull(f, head)
	return filetype.Is(head[:n], "zip")
}
