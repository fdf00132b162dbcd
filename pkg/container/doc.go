// Package container provides dependency injection using uber-fx.
//
// The container manages application dependencies and their lifecycle,
// replacing the deprecated pkg/app.Application god object pattern with
// proper dependency injection.
//
// # Basic Usage
//
//	c, err := container.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var mgr *pluginhost.Manager
//	c, err = container.New(fx.Populate(&mgr))
//	err = c.Run(ctx, func() error {
//	    // mgr was filled in by the container
//	    return nil
//	})
//
// # Default Providers
//
// The container automatically provides these dependencies:
//   - *logging.Logger - Structured logging
//   - io.Writer - Destination the notify stream echoes to
//   - pluginhost.ManagerConfig - Plugin directory and poll intervals
//   - *pluginhost.Manager - The plugin host
//
// # Custom Providers
//
// Override default providers for testing or customization:
//
//	c, err := container.New(
//	    container.WithWriter(&buf),
//	    container.WithManagerConfig(cfg),
//	)
//
// # Lifecycle Management
//
// The container manages startup and shutdown of all registered components:
//
//	c.Run(ctx, func() error {
//	    // All dependencies are started
//	    <-ctx.Done()
//	    // Graceful shutdown on context cancellation
//	    return nil
//	})
//
// See docs/adr/ADR-013-dependency-injection.md for design rationale.
package container
