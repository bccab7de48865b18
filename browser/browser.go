//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/pkg/errors"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/convert"
)

var _ convert.Environment = (*Environment)(nil) // assert interface conformance

// Environment is the page the WebAssembly module is loaded in. Object URLs
// are the browser's own: decoding fetches the markup back through them.
type Environment struct {
	window   js.Value
	document js.Value
}

// New returns the environment of the current page.
func New() *Environment {
	window := js.Global()
	return &Environment{
		window:   window,
		document: window.Get("document"),
	}
}

// OnReady calls fn once the DOM is fully loaded.
func (env *Environment) OnReady(fn func()) {
	if env.document.Get("readyState").String() != "loading" {
		fn()
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb.Release()
		fn()
		return nil
	})
	env.document.Call("addEventListener", "DOMContentLoaded", cb, map[string]interface{}{"once": true})
}

// Attribute returns an attribute of the element with the given id, or ""
// when either is missing.
func (env *Environment) Attribute(id, name string) string {
	el := env.document.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return ""
	}
	v := el.Call("getAttribute", name)
	if v.IsNull() {
		return ""
	}
	return v.String()
}

// OnClick runs fn on its own goroutine, so that the event loop keeps
// running while the conversion calls back into the page.
func (env *Environment) OnClick(id string, fn func()) bool {
	el := env.document.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return false
	}
	// lives as long as the page
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		go fn()
		return nil
	})
	el.Call("addEventListener", "click", cb)
	return true
}

func (env *Environment) QuerySource(class string) convert.Source {
	el := env.document.Call("querySelector", "."+class)
	if el.IsNull() || el.IsUndefined() {
		return nil
	}
	return element{v: el}
}

func (env *Environment) CreateObjectURL(b blob.Blob) (url string, err error) {
	defer catch(&err, "creating object url")

	data := js.Global().Get("Uint8Array").New(len(b.Data))
	js.CopyBytesToJS(data, b.Data)
	jsBlob := js.Global().Get("Blob").New([]interface{}{data}, map[string]interface{}{"type": b.Type})
	return js.Global().Get("URL").Call("createObjectURL", jsBlob).String(), nil
}

// Open fetches the blob behind url. It blocks until the fetch settles and
// must not run on the event loop goroutine.
func (env *Environment) Open(url string) (b blob.Blob, err error) {
	defer catch(&err, "reading object url")

	resp, err := await(env.window.Call("fetch", url))
	if err != nil {
		return blob.Blob{}, errors.Wrapf(blob.ErrUnknownURL, "%s: %v", url, err)
	}
	jsBlob, err := await(resp.Call("blob"))
	if err != nil {
		return blob.Blob{}, errors.Wrap(err, "reading response")
	}
	buf, err := await(jsBlob.Call("arrayBuffer"))
	if err != nil {
		return blob.Blob{}, errors.Wrap(err, "reading blob")
	}
	data := js.Global().Get("Uint8Array").New(buf)
	b.Data = make([]byte, data.Get("length").Int())
	js.CopyBytesToGo(b.Data, data)
	b.Type = jsBlob.Get("type").String()
	return b, nil
}

func (env *Environment) RevokeObjectURL(url string) {
	js.Global().Get("URL").Call("revokeObjectURL", url)
}

// await waits for a promise to settle.
func await(promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	done := make(chan result, 1)
	onResolve := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- result{v: args[0]}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- result{err: errors.New(js.Global().Get("String").Invoke(args[0]).String())}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	r := <-done
	return r.v, r.err
}

// Download clicks a transient anchor pointing at url.
func (env *Environment) Download(url, filename string) (err error) {
	defer catch(&err, "triggering download")

	link := env.document.Call("createElement", "a")
	link.Set("href", url)
	link.Set("download", filename)
	body := env.document.Get("body")
	body.Call("appendChild", link)
	link.Call("click")
	body.Call("removeChild", link)
	return nil
}

func (env *Environment) Alert(msg string) {
	env.window.Call("alert", msg)
}

// element is a live DOM node.
type element struct {
	v js.Value
}

func (e element) BoundingBox() (width, height float64) {
	r := e.v.Call("getBoundingClientRect")
	return r.Get("width").Float(), r.Get("height").Float()
}

func (e element) Clone() convert.Source {
	return element{v: e.v.Call("cloneNode", true)}
}

func (e element) SetAttribute(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e element) Serialize() (markup string, err error) {
	defer catch(&err, "serializing element")
	return js.Global().Get("XMLSerializer").New().Call("serializeToString", e.v).String(), nil
}

// catch turns a JavaScript exception, surfacing as a panic, into an error.
func catch(err *error, what string) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = errors.Wrap(jsErr, what)
		return
	}
	*err = errors.Errorf("%s: %v", what, r)
}
