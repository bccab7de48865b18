// Package page runs the conversion without a browser: the page is parsed
// in memory, clicks are simulated and downloads are collected (and
// optionally written to a directory).
package page

import (
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/convert"
	"github.com/koachconsulting/logopng/logging"
	"github.com/koachconsulting/logopng/svgdoc"
)

//go:embed index.html
var defaultPage string

var _ convert.Environment = (*Environment)(nil) // assert interface conformance

// Download is a file handed to the download mechanism.
type Download struct {
	URL      string
	Filename string
	Type     string
	Data     []byte
}

// Environment is an in-memory page.
type Environment struct {
	doc  *svgdoc.Document
	urls *blob.Registry
	dir  string // when set, downloads are saved there

	mu        sync.Mutex
	listeners map[string][]func()
	downloads []Download
	alerts    []string
}

// New wraps an already parsed document. When dir is not empty, downloads
// are also written to that directory.
func New(doc *svgdoc.Document, dir string) *Environment {
	return &Environment{
		doc:       doc,
		urls:      blob.NewRegistry(),
		dir:       dir,
		listeners: make(map[string][]func()),
	}
}

// Load parses an HTML page.
func Load(r io.Reader, dir string) (*Environment, error) {
	doc, err := svgdoc.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(doc, dir), nil
}

// LoadDefault returns the Koach Consulting landing page.
func LoadDefault(dir string) (*Environment, error) {
	doc, err := svgdoc.ParseString(defaultPage)
	if err != nil {
		return nil, err
	}
	return New(doc, dir), nil
}

// Document returns the page.
func (env *Environment) Document() *svgdoc.Document { return env.doc }

// Registry exposes the object URLs issued so far, to check for leaks.
func (env *Environment) Registry() *blob.Registry { return env.urls }

func (env *Environment) OnClick(id string, fn func()) bool {
	if env.doc.ElementByID(id) == nil {
		return false
	}
	env.mu.Lock()
	env.listeners[id] = append(env.listeners[id], fn)
	env.mu.Unlock()
	return true
}

// Click runs the listeners of the element with the given id, in
// registration order, and reports whether there were any.
func (env *Environment) Click(id string) bool {
	env.mu.Lock()
	listeners := append([]func(){}, env.listeners[id]...)
	env.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return len(listeners) > 0
}

func (env *Environment) QuerySource(class string) convert.Source {
	el := env.doc.FirstByClass(class)
	if el == nil {
		return nil
	}
	if !el.IsSVG() {
		logging.Warn("Logo element is not an <svg>", "class", class, "element", el.Name())
	}
	return element{el}
}

func (env *Environment) CreateObjectURL(b blob.Blob) (string, error) {
	return env.urls.CreateObjectURL(b)
}

func (env *Environment) Open(url string) (blob.Blob, error) {
	return env.urls.Open(url)
}

func (env *Environment) RevokeObjectURL(url string) {
	env.urls.RevokeObjectURL(url)
}

func (env *Environment) Download(url, filename string) error {
	b, err := env.urls.Open(url)
	if err != nil {
		return err
	}
	d := Download{URL: url, Filename: filename, Type: b.Type, Data: b.Data}

	if env.dir != "" {
		path := filepath.Join(env.dir, filepath.Base(filename))
		if err := os.WriteFile(path, d.Data, 0o644); err != nil {
			return errors.Wrap(err, "saving download")
		}
		logging.Info("Download saved", "path", path, "size", len(d.Data))
	}

	env.mu.Lock()
	env.downloads = append(env.downloads, d)
	env.mu.Unlock()
	return nil
}

func (env *Environment) Alert(msg string) {
	logging.Debug("Alert shown", "message", msg)
	env.mu.Lock()
	env.alerts = append(env.alerts, msg)
	env.mu.Unlock()
}

// Downloads returns the files downloaded so far.
func (env *Environment) Downloads() []Download {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([]Download(nil), env.downloads...)
}

// Alerts returns the messages shown so far.
func (env *Environment) Alerts() []string {
	env.mu.Lock()
	defer env.mu.Unlock()
	return append([]string(nil), env.alerts...)
}

// element adapts svgdoc.Element to convert.Source.
type element struct {
	*svgdoc.Element
}

func (e element) Clone() convert.Source {
	return element{e.Element.Clone()}
}
