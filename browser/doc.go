// Package browser runs the conversion in a real page, when compiled with
// GOOS=js GOARCH=wasm: elements, serialization, object URLs, the download
// anchor and alerts all come from the DOM through syscall/js.
package browser
