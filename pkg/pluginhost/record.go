package pluginhost

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/genotrance/plugins/pkg/plugin"
)

// Fixed ABI symbol names the Loader resolves from every opened Library.
const (
	symOnDepends = "OnDepends"
	symOnLoad    = "OnLoad"
	symOnUnload  = "OnUnload"
	symOnTick    = "OnTick"
	symOnNotify  = "OnNotify"
	symOnReady   = "OnReady"

	// symPluginVersion is the optional supplemental version symbol; see
	// SPEC_FULL.md's "Supplemented features" section.
	symPluginVersion = "PluginVersion"
)

// Record is one entry in the Manager's plugin table: a loaded plugin's
// identity, native handle, resolved lifecycle callbacks, and dependency
// edges. Named Record (rather than "Plugin") to avoid colliding with the
// pkg/plugin package name it implements the Handle interface from.
type Record struct {
	name        string
	SourcePath  string
	LibraryPath string
	BinaryMode  bool

	library Library

	// Depends holds the dependency names most recently declared via
	// OnDepends. It is refreshed on every syncDependencies pass while the
	// record is not yet initialized; once OnLoad has run it is no longer
	// refreshed.
	Depends []string

	// Dependents is the back-edge set: plugins whose Depends includes
	// this record's Name. Unload refuses (unless forced) while this is
	// non-empty.
	Dependents map[string]bool

	// initialized is true once OnLoad has completed, which happens only
	// after every name in Depends is present and itself initialized — see
	// Manager.syncDependencies: until then the record is retried on each
	// pass (never a hard topological rejection).
	initialized bool

	// dependencyMisses counts consecutive syncDependencies passes in
	// which this record was still unsatisfied: the first miss stays
	// silent, the second is notified once, and it is reset to zero the
	// moment dependencies resolve. Host-thread-only, like initialized.
	dependencyMisses int

	// callbacks holds every resolved symbol: the fixed lifecycle names
	// plus every name the plugin declared via DeclareCallback.
	mu        sync.RWMutex
	callbacks map[string]Callback
	cindex    map[string]bool

	// Version is the optional semver string read from PluginVersion, if
	// the plugin exports it. Empty when absent; VersionValid tracks
	// whether it parsed as a valid semver (a malformed string still sets
	// Version, it just isn't flagged valid, and never fails the load).
	Version      string
	VersionValid bool

	registries *Registries
}

// newRecord constructs a Record bound to lib and the shared Registries.
func newRecord(name, sourcePath, libraryPath string, binaryMode bool, lib Library, reg *Registries) *Record {
	r := &Record{
		name:        name,
		SourcePath:  sourcePath,
		LibraryPath: libraryPath,
		BinaryMode:  binaryMode,
		library:     lib,
		Dependents:  make(map[string]bool),
		callbacks:   make(map[string]Callback),
		cindex:      make(map[string]bool),
		registries:  reg,
	}

	if cb, ok := lib.Lookup(symOnDepends); ok {
		r.callbacks[symOnDepends] = cb
	}
	if cb, ok := lib.Lookup(symOnLoad); ok {
		r.callbacks[symOnLoad] = cb
	}
	if cb, ok := lib.Lookup(symOnUnload); ok {
		r.callbacks[symOnUnload] = cb
	}
	if cb, ok := lib.Lookup(symOnTick); ok {
		r.callbacks[symOnTick] = cb
	}
	if cb, ok := lib.Lookup(symOnNotify); ok {
		r.callbacks[symOnNotify] = cb
	}
	if cb, ok := lib.Lookup(symOnReady); ok {
		r.callbacks[symOnReady] = cb
	}

	if v, ok := lib.LookupString(symPluginVersion); ok {
		r.Version = v
		if _, err := semver.NewVersion(v); err == nil {
			r.VersionValid = true
		}
	}

	return r
}

// HasRequiredSymbols reports whether the plugin exports the one symbol
// the ABI requires unconditionally.
func (r *Record) HasRequiredSymbols() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.callbacks[symOnLoad]
	return ok
}

// callback returns the named callback (fixed or user-defined), and
// whether it is currently resolvable.
func (r *Record) callback(name string) (Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.callbacks[name]
	return cb, ok
}

// registerCallback resolves and stores a user-defined callback symbol by
// name, called when the plugin declares it via DeclareCallback.
func (r *Record) registerCallback(name string) bool {
	cb, ok := r.library.Lookup(name)
	if !ok {
		return false
	}
	r.mu.Lock()
	r.callbacks[name] = cb
	r.mu.Unlock()
	return true
}

// CallbackNames returns every callback name currently resolved for this
// plugin, fixed ABI symbols included.
func (r *Record) CallbackNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for name := range r.callbacks {
		names = append(names, name)
	}
	return names
}

// DeclaredCallbackNames returns the user-defined callback names this
// plugin published through DeclareCallback (its cindex), excluding the
// fixed lifecycle symbols. This is what the "loaded (...)" notify
// message reports.
func (r *Record) DeclaredCallbackNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cindex))
	for name := range r.cindex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// plugin.Handle implementation.

// Name returns the plugin's own name.
func (r *Record) Name() string { return r.name }

// DeclareCallback registers name as a user-defined callback. Called by a
// plugin's OnLoad with the Handle it was given.
func (r *Record) DeclareCallback(name string) {
	r.mu.Lock()
	r.cindex[name] = true
	r.mu.Unlock()
	r.registerCallback(name)
}

func (r *Record) SharedGet(key string) (any, bool) { return r.registries.SharedGet(r.name, key) }
func (r *Record) SharedSet(key string, value any)  { r.registries.SharedSet(r.name, key, value) }
func (r *Record) SharedFree(key string)            { r.registries.SharedFree(r.name, key) }
func (r *Record) LocalGet(key string) (any, bool)  { return r.registries.LocalGet(r.name, key) }
func (r *Record) LocalSet(key string, value any)   { r.registries.LocalSet(r.name, key, value) }
func (r *Record) LocalFree(key string)             { r.registries.LocalFree(r.name, key) }

var _ plugin.Handle = (*Record)(nil)
