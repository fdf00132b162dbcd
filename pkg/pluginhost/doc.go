// Package pluginhost implements the plugin engine: discovery and
// (re)compilation of candidate plugins, lazy dependency-gated loading,
// crash-contained callback dispatch, and the text command router a host
// embeds to drive all of it from its own main loop.
//
// A Manager owns everything: construct one with NewManager, call Init to
// start the background Monitor, and call Sync once per host main-loop
// iteration to drain discovered plugins, advance dependency resolution,
// and fire a tick across the table.
package pluginhost
