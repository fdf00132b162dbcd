package errors

import "fmt"

// New creates a new HostError with the given type and message.
func New(errType ErrorType, message string, opts ...ErrorOption) *HostError {
	e := &HostError{
		Type:    errType,
		Message: message,
		Code:    1,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewCompileError creates an error for a failed compiler subprocess
// invocation against a source-mode plugin directory.
func NewCompileError(pluginDir string, cause error) *HostError {
	return New(TypeCompile, fmt.Sprintf("failed to compile plugin in %s", pluginDir),
		WithContext("plugin_dir", pluginDir),
		WithError(cause),
		WithExitCode(1),
		WithSuggestions(
			"Check the plugin source for build errors",
			"Run the compile command manually to see full output",
		),
	)
}

// NewLoadError creates an error for a plugin.Open (dlopen-equivalent)
// failure.
func NewLoadError(libraryPath string, cause error) *HostError {
	return New(TypeLoad, fmt.Sprintf("failed to load plugin library %s", libraryPath),
		WithContext("library", libraryPath),
		WithError(cause),
		WithExitCode(1),
		WithSuggestions(
			"Ensure the plugin was built with -buildmode=plugin against a matching Go toolchain",
			"Rebuild the plugin and the host from the same module graph",
		),
	)
}

// NewSymbolError creates an error for a missing required ABI symbol.
func NewSymbolError(pluginName, symbol string) *HostError {
	return New(TypeSymbol, fmt.Sprintf("plugin %q is missing required symbol %q", pluginName, symbol),
		WithContext("plugin", pluginName),
		WithContext("symbol", symbol),
		WithExitCode(1),
	)
}

// NewDependencyError creates an error describing an unsatisfied or
// cyclic plugin dependency.
func NewDependencyError(pluginName, message string, opts ...ErrorOption) *HostError {
	defaultOpts := []ErrorOption{
		WithContext("plugin", pluginName),
		WithExitCode(1),
	}
	opts = append(defaultOpts, opts...)
	return New(TypeDependency, message, opts...)
}

// NewCallbackError creates an error for a panic recovered from a plugin
// callback invocation.
func NewCallbackError(pluginName, callback string, cause error) *HostError {
	return New(TypeCallback, fmt.Sprintf("plugin %q callback %q panicked", pluginName, callback),
		WithContext("plugin", pluginName),
		WithContext("callback", callback),
		WithError(cause),
		WithExitCode(1),
	)
}

// NewRouterError creates an error for an unrecognized command verb.
func NewRouterError(verb string) *HostError {
	return New(TypeRouter, fmt.Sprintf("unknown command %q", verb),
		WithContext("verb", verb),
		WithExitCode(64),
	)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, opts ...ErrorOption) *HostError {
	defaultOpts := []ErrorOption{
		WithExitCode(78), // EX_CONFIG
	}
	opts = append(defaultOpts, opts...)
	return New(TypeConfig, message, opts...)
}

// NewFileNotFoundError creates a file-not-found error.
func NewFileNotFoundError(path string, opts ...ErrorOption) *HostError {
	defaultOpts := []ErrorOption{
		WithContext("path", path),
		WithExitCode(127),
	}
	opts = append(defaultOpts, opts...)
	return New(TypeFileNotFound, fmt.Sprintf("file not found: %s", path), opts...)
}

// NewPermissionError creates a permission/trust-validation error.
func NewPermissionError(path, message string, opts ...ErrorOption) *HostError {
	defaultOpts := []ErrorOption{
		WithContext("path", path),
		WithExitCode(126),
	}
	opts = append(defaultOpts, opts...)
	return New(TypePermission, message, opts...)
}

// NewRuntimeError creates a runtime/infrastructure error.
func NewRuntimeError(message string, opts ...ErrorOption) *HostError {
	defaultOpts := []ErrorOption{
		WithExitCode(71), // EX_OSERR
	}
	opts = append(defaultOpts, opts...)
	return New(TypeRuntime, message, opts...)
}

// Wrap wraps an existing error with additional context, preserving its
// type and properties when it is already a *HostError.
func Wrap(err error, message string, opts ...ErrorOption) *HostError {
	if err == nil {
		return nil
	}

	if hostErr, ok := err.(*HostError); ok {
		wrapped := &HostError{
			Type:        hostErr.Type,
			Message:     message,
			Err:         hostErr,
			Suggestions: hostErr.Suggestions,
			Context:     hostErr.Context,
			Code:        hostErr.Code,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	return New(TypeUnknown, message, append(opts, WithError(err))...)
}

// Is checks if an error is of a specific type.
func Is(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}

	hostErr, ok := err.(*HostError)
	if !ok {
		return false
	}

	return hostErr.Type == errType
}

// WithSuggestion is a convenience function to add a suggestion to any error.
func WithSuggestion(err error, suggestion string) *HostError {
	if err == nil {
		return nil
	}

	if hostErr, ok := err.(*HostError); ok {
		return hostErr.AddSuggestion(suggestion)
	}

	return Wrap(err, err.Error(), WithSuggestions(suggestion))
}
