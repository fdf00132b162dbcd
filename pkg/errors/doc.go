// Package errors provides structured error handling for the plugin host.
//
// This package defines error types, constructors, and utilities for
// creating actionable error messages that back the host's notify-stream
// contract (see pkg/pluginhost). All errors include context, exit codes,
// and optional suggestions for resolution.
//
// # Error Types
//
// Errors are categorized by type for consistent handling:
//   - TypeCompile: compiler subprocess failures on source-mode plugins
//   - TypeLoad: plugin.Open (dlopen-equivalent) failures
//   - TypeSymbol: a required ABI symbol missing from a loaded plugin
//   - TypeDependency: unsatisfied or cyclic plugin dependencies
//   - TypeCallback: a panic recovered from a plugin callback
//   - TypeRouter: an unrecognized command verb
//   - TypeConfig: malformed ManagerConfig
//   - TypeFileNotFound, TypePermission, TypeRuntime: general I/O/trust errors
//
// # Creating Errors
//
// Use typed constructors for common error scenarios:
//
//	err := errors.NewCompileError(pluginDir, buildErr)
//	err := errors.NewLoadError(libraryPath, openErr)
//	err := errors.NewCallbackError(pluginName, "OnTick", recoveredErr)
//
// # Error Handling
//
// Use the Handler for consistent error display on the demo host's stderr:
//
//	handler := errors.DefaultHandler()
//	exitCode := handler.Handle(err)
//	os.Exit(exitCode)
package errors
