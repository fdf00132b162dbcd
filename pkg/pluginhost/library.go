package pluginhost

import (
	stdplugin "plugin"

	"github.com/genotrance/plugins/pkg/plugin"
)

// Callback is the signature every ABI symbol and every user-defined
// callback must satisfy.
type Callback func(h plugin.Handle, cmd *plugin.CmdData)

// Library is the seam between the Loader and the mechanism that actually
// resolves named symbols out of a compiled shared object. The default
// implementation (openNativeLibrary) wraps the standard library's plugin
// package; tests substitute a fake backed by a plain map, since a real
// -buildmode=plugin artifact cannot be produced without invoking the Go
// toolchain.
type Library interface {
	// Lookup resolves symbolName to a Callback. ok is false if the
	// symbol does not exist or does not have the required signature.
	Lookup(symbolName string) (cb Callback, ok bool)

	// LookupString resolves symbolName to a *string symbol's value. Used
	// only for the optional supplemental PluginVersion symbol.
	LookupString(symbolName string) (value string, ok bool)
}

// OpenFunc opens a compiled library at path and returns a handle to
// resolve symbols from it.
type OpenFunc func(path string) (Library, error)

// nativeLibrary adapts *stdplugin.Plugin to the Library interface.
type nativeLibrary struct {
	p *stdplugin.Plugin
}

// openNativeLibrary is the production OpenFunc: plugin.Open, the Go
// stdlib's dlopen-equivalent loader for -buildmode=plugin shared objects.
func openNativeLibrary(path string) (Library, error) {
	p, err := stdplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &nativeLibrary{p: p}, nil
}

func (n *nativeLibrary) Lookup(symbolName string) (Callback, bool) {
	sym, err := n.p.Lookup(symbolName)
	if err != nil {
		return nil, false
	}
	cb, ok := sym.(func(plugin.Handle, *plugin.CmdData))
	if !ok {
		return nil, false
	}
	return Callback(cb), true
}

func (n *nativeLibrary) LookupString(symbolName string) (string, bool) {
	sym, err := n.p.Lookup(symbolName)
	if err != nil {
		return "", false
	}
	ptr, ok := sym.(*string)
	if !ok || ptr == nil {
		return "", false
	}
	return *ptr, true
}

// fakeLibrary is a test-only Library backed by an in-memory symbol table,
// standing in for a compiled .so the sandboxed test run cannot produce.
type fakeLibrary struct {
	symbols map[string]Callback
	strings map[string]string
}

// NewFakeLibrary builds a Library from a plain symbol table. Exported so
// that a host embedding this package can exercise its own Monitor/Loader
// wiring in-process, against plugin code compiled into the same test
// binary, without shelling out to `go build -buildmode=plugin`.
func NewFakeLibrary(symbols map[string]Callback, strings map[string]string) Library {
	return &fakeLibrary{symbols: symbols, strings: strings}
}

func (f *fakeLibrary) Lookup(symbolName string) (Callback, bool) {
	cb, ok := f.symbols[symbolName]
	return cb, ok
}

func (f *fakeLibrary) LookupString(symbolName string) (string, bool) {
	v, ok := f.strings[symbolName]
	return v, ok
}
