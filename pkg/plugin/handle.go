package plugin

// Handle is the opaque value a plugin's exported symbols receive as their
// first argument. It lets a plugin identify itself, declare user-defined
// callback names, and reach the host's shared-data registries without the
// plugin ever holding a pointer into host-internal state.
//
// Handle is implemented by *pluginhost.Record; it is declared here, in the
// same package as CmdData, so that a plugin's source (which imports only
// this package, never pluginhost) can depend on the interface without
// pulling in the whole engine.
type Handle interface {
	// Name returns the plugin's own name, as derived from its source or
	// library file stem.
	Name() string

	// DeclareCallback registers name as a user-defined callback this
	// plugin exposes. The plugin must have already exported a symbol
	// named name with signature func(Handle, *CmdData); a name with no
	// matching exported symbol is still recorded, but no callback is
	// resolved for it, nothing is logged, and dispatching that name never
	// reaches this plugin.
	DeclareCallback(name string)

	// SharedGet/SharedSet/SharedFree access manager-scoped data: keyed by
	// plugin name, outliving this plugin's own unload/reload cycle.
	SharedGet(key string) (any, bool)
	SharedSet(key string, value any)
	SharedFree(key string)

	// LocalGet/LocalSet/LocalFree access plugin-scoped data: destroyed
	// automatically when this plugin unloads.
	LocalGet(key string) (any, bool)
	LocalSet(key string, value any)
	LocalFree(key string)
}
