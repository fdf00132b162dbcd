package pluginhost

import (
	"fmt"
	"io"
	"os"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/plugin"
)

// Manager owns the plugin table, the background Monitor, the dispatch
// and command-routing machinery, and the run-state/tick counter the rest
// of the host's contract is described in terms of.
//
// The plugin table is backed by an insertion-ordered map
// (wk8/go-ordered-map/v2) so that "iteration order equals load order" is
// a structural property of the data structure, not a convention a caller
// has to remember to uphold with a side slice.
type Manager struct {
	mu    sync.RWMutex
	table *orderedmap.OrderedMap[string, *Record]

	registries *Registries
	dispatcher *Dispatcher
	monitor    *Monitor
	router     *Router

	cfg ManagerConfig

	runState RunState
	ready    bool
	tick     int

	// initialCommands are CLI commands queued before Init runs a first
	// Sync, dispatched on the first successful Sync call.
	initialCommands []string

	log    *logging.Logger
	writer io.Writer
}

// NewManager constructs a Manager from cfg. open overrides how the
// Monitor and Loader resolve a compiled library into symbols; pass nil in
// production to use the stdlib plugin package. writer is where Notify
// echoes each broadcast message; pass nil to use os.Stdout.
func NewManager(cfg ManagerConfig, open OpenFunc, log *logging.Logger, writer io.Writer) *Manager {
	if log == nil {
		log = logging.Default()
	}
	if writer == nil {
		writer = os.Stdout
	}
	registries := NewRegistries()
	m := &Manager{
		table:      orderedmap.New[string, *Record](),
		registries: registries,
		dispatcher: NewDispatcher(log),
		cfg:        cfg,
		runState:   Executing,
		log:        log,
		writer:     writer,
	}
	m.monitor = NewMonitor(cfg, open, log)
	m.router = NewRouter(m)
	m.dispatcher.SetNotifier(m.Notify)
	return m
}

// QueueInitialCommand enqueues a command to run on the first Sync,
// mirroring a host forwarding its own startup CLI arguments into the
// manager before the plugin table has anything loaded yet.
func (m *Manager) QueueInitialCommand(cmd string) {
	m.mu.Lock()
	m.initialCommands = append(m.initialCommands, cmd)
	m.mu.Unlock()
}

// Init starts the background Monitor. It does not block; the caller
// drives progress by calling Sync repeatedly (typically once per host
// main-loop iteration).
func (m *Manager) Init() {
	m.monitor.SetPaths(m.cfg.Paths)
	m.monitor.Start(m.cfg.PrePollInterval, m.cfg.PostPollInterval, m.cfg.BinaryMode)
}

// Stop halts the Monitor and transitions the run state to Stopped. It is
// idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.runState == Stopped {
		m.mu.Unlock()
		return
	}
	m.runState = Stopped
	m.mu.Unlock()

	m.monitor.SetRunState(Stopped)
	m.monitor.Stop()
}

// RunState returns the Manager's current run state.
func (m *Manager) RunState() RunState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.runState
}

// setRunState transitions the run state (Executing/Paused); it never
// transitions into or out of Stopped — that is Stop's job alone.
func (m *Manager) setRunState(s RunState) {
	m.mu.Lock()
	if m.runState != Stopped {
		m.runState = s
	}
	m.mu.Unlock()
}

// Sync advances pending dependency resolution (draining the Monitor's
// load queue along with it), fires one tick, and observes the Monitor's
// ready flag. It is meant to be called from the host's own main loop; it
// never blocks on the Monitor goroutine.
//
// Once the host is ready, the load-queue drain and dependency retry pass
// only run every ReadyTickGate-th tick rather than on every Sync — before
// ready it runs on every call, so a freshly-started host with a handful
// of plugins still reaches readiness as fast as its candidates resolve.
func (m *Manager) Sync() {
	if m.RunState() == Stopped {
		return
	}

	m.mu.Lock()
	m.tick++
	tick := m.tick
	m.mu.Unlock()

	gate := m.cfg.ReadyTickGate
	if gate <= 0 {
		gate = 1
	}
	if !m.Ready() || tick%gate == 0 {
		m.loadPending()
		m.syncDependencies()
	}

	if m.RunState() == Executing {
		m.fireTick(tick)
	}

	m.observeReady()
}

func (m *Manager) runInitialCommands() {
	m.mu.Lock()
	cmds := m.initialCommands
	m.initialCommands = nil
	m.mu.Unlock()

	for _, c := range cmds {
		m.router.Route(c)
	}
}

func (m *Manager) fireTick(tick int) {
	m.mu.Lock()
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	crashed := m.dispatcher.TickAll(snapshot, tick)
	for _, name := range crashed {
		m.Unload(name, true)
	}
}

// observeReady fires the Manager's own one-time ready transition the
// first time the Monitor reports every candidate it discovered has been
// processed — §4.6 iii. Readiness itself is computed by the Monitor
// (§4.1 step 6), not here; the Manager only observes it and, on that
// first transition, fans out OnReady and flushes any queued initial
// commands.
func (m *Manager) observeReady() {
	if !m.monitor.Ready() {
		return
	}

	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return
	}
	m.ready = true
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.dispatcher.ReadyAll(snapshot)
	m.runInitialCommands()
}

// Ready reports whether the Manager has observed the Monitor's ready
// condition and fired its own one-time OnReady fan-out.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Tick returns the current tick counter.
func (m *Manager) Tick() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tick
}

// snapshotLocked returns the plugin table in insertion order. Callers
// must hold m.mu.
func (m *Manager) snapshotLocked() []*Record {
	snapshot := make([]*Record, 0, m.table.Len())
	for pair := m.table.Oldest(); pair != nil; pair = pair.Next() {
		snapshot = append(snapshot, pair.Value)
	}
	return snapshot
}

// Snapshot returns the plugin table in load (insertion) order.
func (m *Manager) Snapshot() []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Get returns the named plugin's record, if loaded.
func (m *Manager) Get(name string) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.Get(name)
}

// Notify broadcasts message to every loaded plugin's OnNotify and echoes
// it to the Manager's configured writer, per the host's notify-stream
// contract: the first parameter of any notify call becomes a line on the
// host's standard output after fan-out.
func (m *Manager) Notify(message string) {
	snapshot := m.Snapshot()
	m.dispatcher.NotifyAll(snapshot, message)
	fmt.Fprintln(m.writer, message)
}

// Route forwards a textual command into the Router.
func (m *Manager) Route(line string) *plugin.CmdData {
	return m.router.Route(line)
}

// DependencyReport computes the supplemental, read-only diagnostic
// dependency ordering over the plugin table's current Depends edges.
func (m *Manager) DependencyReport() *DependencyReport {
	m.mu.RLock()
	depends := make(map[string][]string, m.table.Len())
	for pair := m.table.Oldest(); pair != nil; pair = pair.Next() {
		depends[pair.Key] = append([]string(nil), pair.Value.Depends...)
	}
	m.mu.RUnlock()
	return buildDependencyReport(depends)
}

// Health is the supplemental read-only snapshot of the Manager's state,
// modeled on the teacher's LifecycleManager.GetPluginHealth.
type Health struct {
	RunState RunState
	Ready    bool
	Tick     int
	Plugins  int
}

// Health returns the current Health snapshot.
func (m *Manager) Health() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Health{
		RunState: m.runState,
		Ready:    m.ready,
		Tick:     m.tick,
		Plugins:  m.table.Len(),
	}
}
