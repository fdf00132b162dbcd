package pluginhost

import (
	"github.com/genotrance/plugins/pkg/errors"
	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/plugin"
)

// loadPending drains the Monitor's queue and opens each candidate's
// library, inserting (or replacing, on recompile) its Record in the
// table. Opening and bookkeeping happen on the host goroutine only —
// this is the Loader half of the spec's combined Loader/Unloader
// component.
func (m *Manager) loadPending() {
	candidates := m.monitor.DrainLoadQueue()
	for _, c := range candidates {
		m.loadOne(c)
	}
}

func (m *Manager) loadOne(c candidate) {
	open := m.monitor.openFunc
	lib, err := open(c.LibPath)
	if err != nil {
		loadErr := errors.NewLoadError(c.LibPath, err)
		m.log.Error("plugin load failed", logging.String("plugin", c.Name), logging.Err(loadErr))
		m.Notify("Plugin '" + c.Name + "' failed to load")
		return
	}

	record := newRecord(c.Name, c.SourcePath, c.LibPath, c.BinaryMode, lib, m.registries)
	if !record.HasRequiredSymbols() {
		symErr := errors.NewSymbolError(c.Name, "OnLoad")
		m.log.Error("plugin missing required symbol", logging.Err(symErr))
		m.Notify("Plugin '" + c.Name + "' missing OnLoad")
		return
	}

	m.mu.Lock()
	existing, hadExisting := m.table.Get(c.Name)
	m.mu.Unlock()
	if hadExisting {
		m.unloadRecord(existing)
	}

	m.mu.Lock()
	m.table.Set(c.Name, record)
	m.mu.Unlock()
}

// syncDependencies refreshes OnDepends for every not-yet-initialized
// plugin and, once its declared dependencies are all present and
// themselves initialized, fires OnLoad and wires the dependents
// back-edges.
//
// A plugin whose dependencies never resolve (missing entirely, or stuck
// in a cycle with each other) simply never leaves this loop: there is no
// hard topological-sort rejection here, matching the documented boundary
// behavior that cyclic or permanently-missing dependencies stay
// half-initialized forever rather than erroring.
func (m *Manager) syncDependencies() {
	m.mu.Lock()
	pending := make([]*Record, 0)
	for pair := m.table.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.initialized {
			pending = append(pending, pair.Value)
		}
	}
	m.mu.Unlock()

	for _, r := range pending {
		m.refreshDepends(r)
	}

	for _, r := range pending {
		if r.initialized {
			continue
		}
		if !m.dependenciesSatisfied(r) {
			r.dependencyMisses++
			// The first miss stays silent; a notify fires only the
			// second time this record is still unsatisfied, and never
			// again after that for the same stretch of misses — a
			// cyclic pair stuck forever otherwise spams one notify per
			// sync indefinitely.
			if r.dependencyMisses == 2 {
				m.Notify(unsatisfiedMessage(r))
			}
			continue
		}
		r.dependencyMisses = 0
		m.initPlugin(r)
	}
}

func (m *Manager) refreshDepends(r *Record) {
	cmd := plugin.NewCmdData("OnDepends")
	ok, crashed := m.dispatcher.Invoke(r, symOnDepends, cmd)
	if !ok || crashed {
		return
	}
	r.Depends = append([]string(nil), cmd.Returned...)
}

func unsatisfiedMessage(r *Record) string {
	if len(r.Depends) == 0 {
		return "Plugin '" + r.Name() + "' has no dependencies"
	}
	return "Plugin '" + r.Name() + "' dependency '" + r.Depends[0] + "' not loaded"
}

func (m *Manager) dependenciesSatisfied(r *Record) bool {
	if len(r.Depends) == 0 {
		return true
	}
	for _, depName := range r.Depends {
		m.mu.RLock()
		dep, ok := m.table.Get(depName)
		m.mu.RUnlock()
		if !ok || !dep.initialized {
			return false
		}
	}
	return true
}

func (m *Manager) initPlugin(r *Record) {
	cmd := plugin.NewCmdData("OnLoad")
	ok, crashed := m.dispatcher.Invoke(r, symOnLoad, cmd)
	if crashed {
		m.Unload(r.Name(), true)
		return
	}
	if !ok {
		// No OnLoad symbol was resolvable even though HasRequiredSymbols
		// passed at discovery time — treat as a load failure.
		m.Unload(r.Name(), true)
		return
	}

	r.initialized = true

	for _, depName := range r.Depends {
		m.mu.RLock()
		dep, depOk := m.table.Get(depName)
		m.mu.RUnlock()
		if depOk {
			dep.mu.Lock()
			dep.Dependents[r.Name()] = true
			dep.mu.Unlock()
		}
	}

	m.Notify("Plugin '" + r.Name() + "' loaded (" + joinComma(r.DeclaredCallbackNames()) + ")")
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

// Unload removes a plugin from the table, running OnUnload (if resolved)
// first. While the plugin still has dependents it refuses, unless force
// is true, by returning false without logging or notifying.
func (m *Manager) Unload(name string, force bool) bool {
	m.mu.Lock()
	r, ok := m.table.Get(name)
	if !ok {
		m.mu.Unlock()
		return false
	}
	r.mu.RLock()
	hasDependents := len(r.Dependents) > 0
	r.mu.RUnlock()
	if hasDependents && !force {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	m.unloadRecord(r)
	m.Notify("Plugin '" + name + "' unloaded")
	return true
}

// unloadRecord runs OnUnload and removes r's bookkeeping from the table.
// It must never be called while m.mu is held: a crash inside OnUnload is
// surfaced through the Dispatcher's notifier, which calls back into
// Manager.Notify — and Notify takes m.mu itself via Snapshot, so holding
// the lock across Invoke here would deadlock the moment OnUnload panics.
func (m *Manager) unloadRecord(r *Record) {
	cmd := plugin.NewCmdData("OnUnload")
	// A crash in OnUnload is notified only — the plugin is already on
	// its way out, and there is nothing left to unload more thoroughly.
	m.dispatcher.Invoke(r, symOnUnload, cmd)

	m.mu.Lock()
	for _, depName := range r.Depends {
		if dep, ok := m.table.Get(depName); ok {
			dep.mu.Lock()
			delete(dep.Dependents, r.Name())
			dep.mu.Unlock()
		}
	}
	m.registries.LocalFreeAll(r.Name())
	m.table.Delete(r.Name())
	m.mu.Unlock()
}
