package pluginhost

import (
	"strings"

	"github.com/genotrance/plugins/pkg/plugin"
	"github.com/genotrance/plugins/pkg/registry"
	"github.com/genotrance/plugins/pkg/version"
)

// verbHandler implements one reserved router verb.
type verbHandler func(rt *Router, args []string) *plugin.CmdData

// Router turns a single line of CLI/stdin text into either one of the
// host's reserved verbs, or a named callback dispatched to every loaded
// plugin that resolves it. Reserved verbs (and their aliases, e.g.
// "quit"/"exit" both stopping the Manager) are kept in a registry.Registry
// so the alias table has one place to grow, the same pattern used
// elsewhere in this codebase for named, aliasable items.
//
// ppause/presume/pstop are three distinct verbs, not aliases of a shared
// pause/resume base: each targets the Monitor's own run-state mirror, not
// the Manager's, since pausing or stopping only the background scan loop
// (and leaving dispatch and ticking running) is the documented contract.
type Router struct {
	m   *Manager
	reg *registry.Registry[verbHandler]
}

// NewRouter constructs a Router bound to m with the reserved verb table
// populated.
func NewRouter(m *Manager) *Router {
	rt := &Router{m: m, reg: registry.New[verbHandler]()}

	_ = rt.reg.Register("quit", func(rt *Router, args []string) *plugin.CmdData {
		rt.m.Stop()
		return nil
	}, "exit")

	_ = rt.reg.Register("ppause", func(rt *Router, args []string) *plugin.CmdData {
		rt.m.monitor.SetRunState(Paused)
		return nil
	})

	_ = rt.reg.Register("presume", func(rt *Router, args []string) *plugin.CmdData {
		rt.m.monitor.SetRunState(Executing)
		return nil
	})

	_ = rt.reg.Register("pstop", func(rt *Router, args []string) *plugin.CmdData {
		rt.m.monitor.SetRunState(Stopped)
		return nil
	})

	_ = rt.reg.Register("notify", func(rt *Router, args []string) *plugin.CmdData {
		rt.m.Notify(strings.Join(args, " "))
		return nil
	})

	_ = rt.reg.Register("getVersion", func(rt *Router, args []string) *plugin.CmdData {
		cmd := plugin.NewCmdData("getVersion")
		cmd.Return(version.Version)
		return cmd
	})

	_ = rt.reg.Register("getVersionBanner", func(rt *Router, args []string) *plugin.CmdData {
		cmd := plugin.NewCmdData("getVersionBanner")
		cmd.Return(version.Banner())
		return cmd
	})

	_ = rt.reg.Register("plist", func(rt *Router, args []string) *plugin.CmdData {
		cmd := plugin.NewCmdData("plist")
		for _, r := range rt.m.Snapshot() {
			cmd.Return(r.Name())
		}
		return cmd
	})

	_ = rt.reg.Register("pload", func(rt *Router, args []string) *plugin.CmdData {
		cmd := plugin.NewCmdData("pload")
		rt.m.loadPending()
		rt.m.syncDependencies()
		return cmd
	}, "preload")

	_ = rt.reg.Register("punload", func(rt *Router, args []string) *plugin.CmdData {
		cmd := plugin.NewCmdData("punload")
		if len(args) == 0 {
			cmd.Fail("missing plugin name")
			return cmd
		}
		force := len(args) > 1 && args[1] == "force"
		if !rt.m.Unload(args[0], force) {
			cmd.Fail("plugin not found or has dependents")
		}
		return cmd
	})

	_ = rt.reg.Register("pdeps", func(rt *Router, args []string) *plugin.CmdData {
		report := rt.m.DependencyReport()
		cmd := plugin.NewCmdData("pdeps")
		for _, name := range report.LoadOrder {
			cmd.Return(name)
		}
		if len(report.Cycle) > 0 {
			cmd.Fail("dependency cycle detected")
			for _, name := range report.Cycle {
				cmd.Return(name)
			}
		}
		return cmd
	})

	_ = rt.reg.Register("phealth", func(rt *Router, args []string) *plugin.CmdData {
		h := rt.m.Health()
		cmd := plugin.NewCmdData("phealth")
		cmd.Return(h.RunState.String())
		return cmd
	})

	return rt
}

// Route parses line, dispatches the reserved verb (or its alias) or
// callback it names, and returns the CmdData used for the dispatch (nil
// for verbs that don't produce one, such as quit/exit, notify,
// ppause/presume/pstop).
func (rt *Router) Route(line string) *plugin.CmdData {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := fields[0], fields[1:]

	if handler, ok := rt.reg.Get(verb); ok {
		return handler(rt, args)
	}
	return rt.dispatchCallback(verb, args)
}

// dispatchCallback routes an unrecognized verb to every loaded plugin
// that has resolved a callback under that name, per the ABI's
// convention that any DeclareCallback-registered name is itself a valid
// routable command.
func (rt *Router) dispatchCallback(name string, args []string) *plugin.CmdData {
	cmd := plugin.NewCmdData(name, args...)
	handled := false
	for _, r := range rt.m.Snapshot() {
		ok, crashed := rt.m.dispatcher.CallCommand(r, name, cmd)
		if ok {
			handled = true
		}
		if ok && crashed {
			rt.m.Unload(r.Name(), true)
		}
	}
	if !handled {
		cmd.Fail("no plugin resolved '" + name + "'")
	}
	return cmd
}
