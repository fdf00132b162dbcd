package container

import (
	"io"
	"os"

	"go.uber.org/fx"

	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/pluginhost"
)

// Provider functions create and configure application dependencies.
// These are called by uber-fx in dependency order.

// provideLogger creates the application logger.
//
// The logger is configured from environment variables:
//   - PLUGINS_LOG_LEVEL: debug, info, warn, error
//   - PLUGINS_LOG_FORMAT: text, json
//   - PLUGINS_DEBUG: enables debug logging
func provideLogger() *logging.Logger {
	return logging.New(logging.FromEnv())
}

// provideWriter provides the output writer the notify stream echoes to.
//
// Defaults to os.Stdout. Can be overridden in tests using WithWriter().
func provideWriter() io.Writer {
	return os.Stdout
}

// provideManagerConfig loads the Manager's own configuration.
func provideManagerConfig(logger *logging.Logger) pluginhost.ManagerConfig {
	logger.Debug("loading plugin host configuration")
	return pluginhost.NewManagerConfig().Value
}

// ManagerParams groups dependencies for the Manager provider.
type ManagerParams struct {
	fx.In

	Config pluginhost.ManagerConfig
	Logger *logging.Logger
	Writer io.Writer
}

// provideManager constructs the plugin host Manager, the aggregate
// owning the plugin table, Monitor, Dispatcher, and Router.
func provideManager(params ManagerParams) *pluginhost.Manager {
	params.Logger.Debug("creating plugin manager")
	return pluginhost.NewManager(params.Config, nil, params.Logger, params.Writer)
}
