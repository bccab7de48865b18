//go:build js && wasm

// Command wasm wires the "Download PNG" button of the Koach Consulting
// page. Build with GOOS=js GOARCH=wasm and load it next to wasm_exec.js.
//
// The button may carry a data-log-level attribute (debug, info, warn,
// error) selecting what reaches the browser console.
package main

import (
	"github.com/koachconsulting/logopng/browser"
	"github.com/koachconsulting/logopng/convert"
	"github.com/koachconsulting/logopng/logging"
)

func main() {
	env := browser.New()

	handler := convert.New(env)
	env.OnReady(func() {
		logging.InitLogger(env.Attribute(convert.TriggerID, "data-log-level"))
		// a missing button is logged by Bind and leaves the page as is
		_ = handler.Bind()
	})

	select {}
}
