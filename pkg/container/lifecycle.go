package container

import (
	"context"

	"go.uber.org/fx"

	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/pluginhost"
)

// LifecycleParams groups all components that need lifecycle management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Manager   *pluginhost.Manager
	Logger    *logging.Logger
}

// registerLifecycleHooks starts the Manager's background Monitor on
// container start and stops it on container shutdown.
//
// Lifecycle hooks execute in dependency order:
//   - OnStart: from least dependent to most dependent
//   - OnStop: from most dependent to least dependent (reverse order)
func registerLifecycleHooks(params LifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("starting plugin host")
			params.Manager.Init()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("stopping plugin host")
			params.Manager.Stop()
			return nil
		},
	})
}
