package container

import (
	"io"

	"go.uber.org/fx"

	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/pluginhost"
)

// Option is a functional option for configuring the container.
//
// Options are typically used in tests to override default providers.
type Option = fx.Option

// WithLogger overrides the logger provider.
//
// Useful in tests to capture log output or disable logging.
func WithLogger(logger *logging.Logger) Option {
	return fx.Replace(func() *logging.Logger {
		return logger
	})
}

// WithWriter overrides the output writer the notify stream echoes to.
//
// Useful in tests to capture output to a buffer.
func WithWriter(w io.Writer) Option {
	return fx.Replace(func() io.Writer {
		return w
	})
}

// WithManagerConfig overrides the Manager's configuration.
//
// Useful in tests to point the Monitor at a t.TempDir() plugin
// directory with short poll intervals.
func WithManagerConfig(cfg pluginhost.ManagerConfig) Option {
	return fx.Replace(func() pluginhost.ManagerConfig {
		return cfg
	})
}

// WithoutLifecycle disables lifecycle hooks for faster tests.
//
// This prevents the Monitor from ever being started, which can speed up
// tests that only need the container's dependency graph and not its
// background polling.
func WithoutLifecycle() Option {
	return fx.Options(
		// Skip lifecycle invocations
		fx.Invoke(func() {
			// No-op instead of registerLifecycleHooks
		}),
	)
}
