// Package plugin defines the ABI exposed across the boundary between the
// host and a loaded plugin: the CmdData call envelope and the Handle a
// plugin receives as the first argument to every exported symbol.
//
// # Go-native shared-library ABI
//
// A plugin is a Go shared library built with `go build -buildmode=plugin`.
// The host resolves it with the standard library `plugin` package
// (plugin.Open / (*plugin.Plugin).Lookup) rather than a C-style dlopen,
// since stdlib plugin symbols are already typed Go function values. Each
// resolved symbol has the signature:
//
//	func(h plugin.Handle, cmd *plugin.CmdData)
//
// The symbol names the host looks for are fixed:
//
//	OnDepends  (optional)  — declare/refresh dependency names
//	OnLoad     (required)  — plugin initialization
//	OnUnload   (optional)  — plugin teardown
//	OnTick     (optional)  — periodic host heartbeat
//	OnNotify   (optional)  — broadcast message fan-out
//	OnReady    (optional)  — host reached its ready gate
//
// A plugin may additionally export any number of other
// func(plugin.Handle, *plugin.CmdData) symbols and declare them as
// user-defined callbacks by calling Handle.DeclareCallback(name) from
// within OnLoad. The host's command router (Router.Route) then
// resolves those names dynamically, the Go-native analogue of writing
// symbol names into a plugin's own cindex table.
//
// See pkg/pluginhost for the engine that drives this ABI: discovery,
// compilation, loading, dependency ordering, and crash-contained dispatch.
package plugin
