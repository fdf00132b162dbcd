package pluginhost

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/plugin"
)

func notifyLines(buf *bytes.Buffer) []string {
	var lines []string
	for _, l := range strings.Split(buf.String(), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// TestManager_Sync_TwoPluginDependencyHappyPath reproduces spec.md's
// documented two-plugin scenario: plg1 depends on plg2. On the first
// Sync, plg2 has no dependencies and loads immediately while plg1's
// dependency is still unsatisfied; on the second Sync, plg1 loads too.
func TestManager_Sync_TwoPluginDependencyHappyPath(t *testing.T) {
	buf := &bytes.Buffer{}

	plg1 := NewFakeLibrary(map[string]Callback{
		symOnLoad: func(h plugin.Handle, cmd *plugin.CmdData) {
			h.DeclareCallback("plg1unload")
		},
		symOnDepends: func(h plugin.Handle, cmd *plugin.CmdData) {
			cmd.Return("plg2")
		},
		"plg1unload": func(h plugin.Handle, cmd *plugin.CmdData) {},
	}, nil)
	plg2 := NewFakeLibrary(map[string]Callback{
		symOnLoad: func(h plugin.Handle, cmd *plugin.CmdData) {
			h.DeclareCallback("plg2test")
		},
		"plg2test": func(h plugin.Handle, cmd *plugin.CmdData) {},
	}, nil)

	open := NewFakeOpenFunc(map[string]Library{
		"/plugins/plg1.so": plg1,
		"/plugins/plg2.so": plg2,
	})

	cfg := DefaultManagerConfig()
	m := NewManager(cfg, open, logging.Default(), buf)
	m.monitor.loadQueue = []candidate{
		{Name: "plg1", LibPath: "/plugins/plg1.so"},
		{Name: "plg2", LibPath: "/plugins/plg2.so"},
	}

	m.Sync()

	lines := notifyLines(buf)
	require.Contains(t, lines, "Plugin 'plg2' loaded (plg2test)")
	require.NotContains(t, lines, "Plugin 'plg1' dependency 'plg2' not loaded",
		"a single miss stays silent; only the second consecutive miss notifies")

	r1, ok := m.Get("plg1")
	require.True(t, ok)
	assert.False(t, r1.initialized)

	r2, ok := m.Get("plg2")
	require.True(t, ok)
	assert.True(t, r2.initialized)

	buf.Reset()
	m.Sync()

	lines = notifyLines(buf)
	require.Contains(t, lines, "Plugin 'plg1' loaded (plg1unload)")

	r1, ok = m.Get("plg1")
	require.True(t, ok)
	assert.True(t, r1.initialized)

	r2, ok = m.Get("plg2")
	require.True(t, ok)
	assert.True(t, r2.Dependents["plg1"], "plg2 should record plg1 as a dependent once plg1 loads")
}

// TestManager_SyncDependencies_NotifiesOnlyOnSecondMiss exercises a
// dependency that never resolves (the declared name is never loaded): the
// first Sync's miss must stay silent, the second must notify exactly
// once, and a third must not notify again.
func TestManager_SyncDependencies_NotifiesOnlyOnSecondMiss(t *testing.T) {
	buf := &bytes.Buffer{}
	plg1 := NewFakeLibrary(map[string]Callback{
		symOnLoad:    func(h plugin.Handle, cmd *plugin.CmdData) {},
		symOnDepends: func(h plugin.Handle, cmd *plugin.CmdData) { cmd.Return("ghost") },
	}, nil)
	open := NewFakeOpenFunc(map[string]Library{"/p/plg1.so": plg1})

	m := NewManager(DefaultManagerConfig(), open, logging.Default(), buf)
	m.monitor.loadQueue = []candidate{{Name: "plg1", LibPath: "/p/plg1.so"}}

	m.Sync()
	assert.NotContains(t, buf.String(), "not loaded", "first miss must stay silent")

	buf.Reset()
	m.Sync()
	assert.Contains(t, buf.String(), "Plugin 'plg1' dependency 'ghost' not loaded")

	buf.Reset()
	m.Sync()
	assert.NotContains(t, buf.String(), "not loaded", "no repeat notify past the second miss")

	r1, ok := m.Get("plg1")
	require.True(t, ok)
	assert.False(t, r1.initialized)
}

func TestManager_LoadOne_RejectsMissingOnLoad(t *testing.T) {
	buf := &bytes.Buffer{}
	lib := NewFakeLibrary(map[string]Callback{}, nil)
	open := NewFakeOpenFunc(map[string]Library{"/plugins/bad.so": lib})

	m := NewManager(DefaultManagerConfig(), open, logging.Default(), buf)
	m.monitor.loadQueue = []candidate{{Name: "bad", LibPath: "/plugins/bad.so"}}

	m.Sync()

	_, ok := m.Get("bad")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Plugin 'bad' missing OnLoad")
}

func TestManager_LoadOne_OpenFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	open := NewFakeOpenFunc(map[string]Library{})

	m := NewManager(DefaultManagerConfig(), open, logging.Default(), buf)
	m.monitor.loadQueue = []candidate{{Name: "missing", LibPath: "/plugins/missing.so"}}

	m.Sync()

	_, ok := m.Get("missing")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Plugin 'missing' failed to load")
}

func TestManager_Unload_RefusesWithDependentsUnlessForced(t *testing.T) {
	buf := &bytes.Buffer{}
	plg1 := NewFakeLibrary(map[string]Callback{
		symOnLoad:    func(h plugin.Handle, cmd *plugin.CmdData) {},
		symOnDepends: func(h plugin.Handle, cmd *plugin.CmdData) { cmd.Return("plg2") },
	}, nil)
	plg2 := NewFakeLibrary(map[string]Callback{
		symOnLoad: func(h plugin.Handle, cmd *plugin.CmdData) {},
	}, nil)
	open := NewFakeOpenFunc(map[string]Library{
		"/p/plg1.so": plg1,
		"/p/plg2.so": plg2,
	})

	m := NewManager(DefaultManagerConfig(), open, logging.Default(), buf)
	m.monitor.loadQueue = []candidate{
		{Name: "plg1", LibPath: "/p/plg1.so"},
		{Name: "plg2", LibPath: "/p/plg2.so"},
	}
	m.Sync()
	m.Sync()

	r1, _ := m.Get("plg1")
	require.True(t, r1.initialized)

	ok := m.Unload("plg2", false)
	assert.False(t, ok, "plg2 still has plg1 as a dependent")
	_, stillThere := m.Get("plg2")
	assert.True(t, stillThere)

	ok = m.Unload("plg2", true)
	assert.True(t, ok)
	_, stillThere = m.Get("plg2")
	assert.False(t, stillThere)
}

func TestManager_Unload_Idempotent(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), NewFakeOpenFunc(nil), logging.Default(), &bytes.Buffer{})
	assert.False(t, m.Unload("nope", false))
}

func TestManager_RunState_NeverLeavesStoppedExceptViaStop(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), NewFakeOpenFunc(nil), logging.Default(), &bytes.Buffer{})
	m.Stop()
	assert.Equal(t, Stopped, m.RunState())

	m.setRunState(Executing)
	assert.Equal(t, Stopped, m.RunState(), "setRunState must never leave Stopped")

	m.Stop()
	assert.Equal(t, Stopped, m.RunState(), "Stop is idempotent")
}

// TestManager_ObserveReady_FollowsMonitor verifies the Manager's own
// ready flag is driven purely by observing the Monitor's ready flag, not
// by any tick count: a Manager whose Monitor never reaches ready stays
// not-ready indefinitely, and flips the instant the Monitor does.
func TestManager_ObserveReady_FollowsMonitor(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), NewFakeOpenFunc(nil), logging.Default(), &bytes.Buffer{})

	for i := 0; i < 5; i++ {
		m.Sync()
		assert.False(t, m.Ready())
	}

	m.monitor.SetReady(true)
	m.Sync()
	assert.True(t, m.Ready())
}

// TestManager_QueueInitialCommand_RunsOnReadyTransition verifies initial
// commands are held until the Monitor's ready flag first transitions to
// true, not flushed on the very first Sync unconditionally.
func TestManager_QueueInitialCommand_RunsOnReadyTransition(t *testing.T) {
	buf := &bytes.Buffer{}
	m := NewManager(DefaultManagerConfig(), NewFakeOpenFunc(nil), logging.Default(), buf)
	m.QueueInitialCommand("notify hello")

	m.Sync()
	assert.NotContains(t, buf.String(), "hello", "initial commands must wait for the ready transition")

	m.monitor.SetReady(true)
	m.Sync()
	assert.Contains(t, buf.String(), "hello")
}

func TestManager_DependencyReport_ReflectsLiveTable(t *testing.T) {
	buf := &bytes.Buffer{}
	plg1 := NewFakeLibrary(map[string]Callback{
		symOnLoad:    func(h plugin.Handle, cmd *plugin.CmdData) {},
		symOnDepends: func(h plugin.Handle, cmd *plugin.CmdData) { cmd.Return("plg2") },
	}, nil)
	plg2 := NewFakeLibrary(map[string]Callback{
		symOnLoad: func(h plugin.Handle, cmd *plugin.CmdData) {},
	}, nil)
	open := NewFakeOpenFunc(map[string]Library{
		"/p/plg1.so": plg1,
		"/p/plg2.so": plg2,
	})

	m := NewManager(DefaultManagerConfig(), open, logging.Default(), buf)
	m.monitor.loadQueue = []candidate{
		{Name: "plg1", LibPath: "/p/plg1.so"},
		{Name: "plg2", LibPath: "/p/plg2.so"},
	}
	m.Sync()

	report := m.DependencyReport()
	assert.Equal(t, []string{"plg2", "plg1"}, report.LoadOrder)
}

func TestManager_Health(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), NewFakeOpenFunc(nil), logging.Default(), &bytes.Buffer{})
	h := m.Health()
	assert.Equal(t, Executing, h.RunState)
	assert.False(t, h.Ready)
	assert.Equal(t, 0, h.Plugins)
}
