package pluginhost

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/validation"
)

// candidate is one discovered plugin awaiting (re)compilation and load.
type candidate struct {
	Name       string
	SourcePath string // source-mode: directory; binary-mode: ""
	LibPath    string // the library the Loader should open
	BinaryMode bool
}

// Monitor is the background worker that scans the configured plugin
// directories, applies the allow/block filters, (re)compiles source-mode
// candidates into a sidecar .new library and swaps it into place, and
// enqueues newly-ready candidates for the Loader to pick up on the next
// Sync.
//
// Monitor owns exactly one mutex guarding {runState, paths, loadQueue,
// processed, compileTimes, ready}. Everything else it does — directory
// walks, compiler subprocesses — runs against an unlocked snapshot, per
// the host's two-goroutine concurrency rule: the Monitor goroutine never
// touches a Record or invokes a plugin callback.
type Monitor struct {
	mu        sync.Mutex
	runState  RunState
	paths     []string
	loadQueue []candidate

	// processed marks every candidate name handled at least once this
	// run — loaded, filtered, or (for source mode) compiled — so the
	// ready condition (processed.size == candidates.size, §4.1 step 6)
	// can be evaluated, and so a candidate is only ever enqueued once
	// per change instead of being re-enqueued every scan.
	processed map[string]bool

	// compileTimes tracks, per source directory, the mtime last
	// successfully compiled and swapped in — the staleness check
	// compileSource uses to decide whether a touched source needs a
	// recompile.
	compileTimes map[string]time.Time

	ready bool

	compileCommand string
	allowFile      string
	blockFile      string
	openFunc       OpenFunc

	log *logging.Logger

	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewMonitor constructs a Monitor over paths, using cfg for poll
// intervals and compile/filter settings. open is the library opener to
// use once a candidate is ready (production callers pass
// openNativeLibrary; tests pass a fake).
func NewMonitor(cfg ManagerConfig, open OpenFunc, log *logging.Logger) *Monitor {
	if open == nil {
		open = openNativeLibrary
	}
	return &Monitor{
		paths:          append([]string(nil), cfg.Paths...),
		processed:      make(map[string]bool),
		compileTimes:   make(map[string]time.Time),
		compileCommand: cfg.CompileCommand,
		allowFile:      cfg.AllowFile,
		blockFile:      cfg.BlockFile,
		openFunc:       open,
		log:            log,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start launches the polling goroutine. preInterval is used until a scan
// finds every discovered candidate processed and marks the Monitor ready,
// then postInterval takes over — mirroring the
// host's documented 200ms pre-ready / 2s post-ready cadence.
func (m *Monitor) Start(preInterval, postInterval time.Duration, binaryMode bool) {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	go m.run(preInterval, postInterval, binaryMode)
}

// Stop signals the polling goroutine to exit and waits for it. It is a
// no-op if Start was never called — a Manager that is stopped before
// Init must not block forever waiting on a goroutine that never ran.
func (m *Monitor) Stop() {
	m.mu.Lock()
	started := m.started
	m.mu.Unlock()
	if !started {
		return
	}
	close(m.stop)
	<-m.done
}

// SetReady flips the Monitor's post-ready polling cadence directly.
// Production code never calls this — readiness is computed by scan
// itself (§4.1 step 6) — but it gives tests a way to force the
// post-ready cadence without driving a full scan.
func (m *Monitor) SetReady(ready bool) {
	m.mu.Lock()
	m.ready = ready
	m.mu.Unlock()
}

// Ready reports whether this Monitor has processed every candidate name
// discovered by its most recent scan cycle at least once. The Manager
// polls this once per Sync to decide whether to fire its own one-time
// ready transition (§4.6 iii).
func (m *Monitor) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// SetRunState sets the Monitor's own run-state mirror — distinct from
// the Manager's run-state — which the `ppause`/`presume`/`pstop` router
// verbs drive directly (§4.4): pausing or stopping the Monitor affects
// only its background scan loop, not dispatch or ticking.
func (m *Monitor) SetRunState(s RunState) {
	m.mu.Lock()
	m.runState = s
	m.mu.Unlock()
}

// RunState returns the Monitor's own run-state mirror.
func (m *Monitor) RunState() RunState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runState
}

// SetPaths replaces the scanned directory list.
func (m *Monitor) SetPaths(paths []string) {
	m.mu.Lock()
	m.paths = append([]string(nil), paths...)
	m.mu.Unlock()
}

// DrainLoadQueue returns and clears every candidate discovered since the
// last drain. Called by Manager.Sync on the host goroutine.
func (m *Monitor) DrainLoadQueue() []candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	drained := m.loadQueue
	m.loadQueue = nil
	return drained
}

func (m *Monitor) run(preInterval, postInterval time.Duration, binaryMode bool) {
	defer close(m.done)

	for {
		m.mu.Lock()
		state := m.runState
		ready := m.ready
		paths := append([]string(nil), m.paths...)
		m.mu.Unlock()

		if state == Stopped {
			return
		}
		if state != Paused {
			m.scan(paths, binaryMode)
		}

		interval := preInterval
		if ready {
			interval = postInterval
		}

		select {
		case <-m.stop:
			return
		case <-time.After(interval):
		}
	}
}

// scan walks every configured path, applies the allow/block filters,
// (re)compiles source-mode candidates that changed, and enqueues anything
// ready to load. Every candidate name discovered is marked processed at
// most once per change — a candidate already processed and unchanged is
// neither recompiled nor re-enqueued, so a steady-state plugin is never
// torn down and reloaded on a cycle where nothing happened. Once every
// name discovered this scan has been processed, the Monitor flips ready.
func (m *Monitor) scan(paths []string, binaryMode bool) {
	var ready []candidate
	var candidateNames []string

	for _, dir := range paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		allow, block := m.loadFilters(dir)

		for _, entry := range entries {
			name := entry.Name()
			if name == filepath.Base(m.allowFile) || name == filepath.Base(m.blockFile) {
				continue
			}

			if binaryMode {
				if entry.IsDir() || filepath.Ext(name) != ".so" {
					continue
				}
			} else if !entry.IsDir() {
				continue
			}

			base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
			candidateNames = append(candidateNames, base)

			// Filtered names are still marked processed so the ready
			// condition can be reached (§4.1 step 4), even though they
			// are never enqueued.
			if (len(allow) > 0 && !allow[base]) || block[base] {
				m.markProcessed(base)
				continue
			}

			if binaryMode {
				if m.isProcessed(base) {
					continue
				}
				libPath, ok := m.validateCandidatePath(dir, name)
				if !ok {
					continue
				}
				ready = append(ready, candidate{Name: base, LibPath: libPath, BinaryMode: true})
				m.markProcessed(base)
				continue
			}

			if _, ok := m.validateCandidatePath(dir, name); !ok {
				continue
			}
			if c, ok := m.compileSource(filepath.Join(dir, name), base); ok {
				ready = append(ready, c)
			}
			m.markProcessed(base)
		}
	}

	if len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].Name < ready[j].Name })

		m.mu.Lock()
		m.loadQueue = append(m.loadQueue, ready...)
		m.mu.Unlock()
	}

	m.checkReady(candidateNames)
}

// markProcessed records name as handled at least once this run.
func (m *Monitor) markProcessed(name string) {
	m.mu.Lock()
	m.processed[name] = true
	m.mu.Unlock()
}

// isProcessed reports whether name has already been handled — for
// binary-mode candidates this is the sole gate against re-enqueueing the
// same library every cycle, since a binary artifact has no mtime-based
// staleness check the way a source directory does.
func (m *Monitor) isProcessed(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed[name]
}

// checkReady flips ready, once, the first time every candidate name
// discovered in a scan has been processed — §4.1 step 6. It never
// reverts once set.
func (m *Monitor) checkReady(candidateNames []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready {
		return
	}
	for _, name := range candidateNames {
		if !m.processed[name] {
			return
		}
	}
	m.ready = true
}

// validateCandidatePath rejects a candidate whose name escapes dir via a
// symlink, refusing to let a plugin directory trick the Monitor into
// compiling or loading a library from outside the configured scan root.
// It returns the validated, cleaned path.
func (m *Monitor) validateCandidatePath(dir, name string) (string, bool) {
	path, err := validation.ValidatePath(name, validation.PathValidationOptions{
		BaseDir:        dir,
		AllowAbsolute:  false,
		FollowSymlinks: true,
		RequireExists:  true,
	})
	if err != nil {
		if m.log != nil {
			m.log.Warn("plugin candidate rejected", logging.String("name", name), logging.String("dir", dir), logging.Err(err))
		}
		return "", false
	}
	return path, true
}

// loadFilters reads allow.ini/block.ini from dir. Despite the .ini
// extension, the format is one plugin name per line — no sections, no
// key=value pairs. This is preserved exactly as the inherited format
// behaves, not "fixed" into real INI.
func (m *Monitor) loadFilters(dir string) (allow, block map[string]bool) {
	allow = readNameList(filepath.Join(dir, m.allowFile))
	block = readNameList(filepath.Join(dir, m.blockFile))
	return
}

func readNameList(path string) map[string]bool {
	names := make(map[string]bool)
	f, err := os.Open(path)
	if err != nil {
		return names
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names[line] = true
	}
	return names
}

// compileSource invokes the compiler subprocess against sourceDir,
// writing to a sidecar "<name>.so.new" file and swapping it into place
// only once the compile succeeds, with a bounded rename retry to survive
// a loader that is mid-Lookup on the previous generation.
func (m *Monitor) compileSource(sourceDir, name string) (candidate, bool) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return candidate{}, false
	}

	mtime := latestModTime(sourceDir)
	m.mu.Lock()
	last, seen := m.compileTimes[sourceDir]
	m.mu.Unlock()
	if seen && !mtime.After(last) {
		// Already compiled and nothing has changed since — not a fresh
		// candidate to enqueue, regardless of whether its name has been
		// marked processed before (a touched sibling file re-triggers
		// this same check on the next scan).
		return candidate{}, false
	}

	libPath := filepath.Join(sourceDir, name+".so")
	newPath := libPath + ".new"

	cmd := renderCompileCommand(m.compileCommand, sourceDir, newPath)
	if err := runCompiler(cmd); err != nil {
		if m.log != nil {
			m.log.Warn("plugin compile failed", logging.String("plugin", name), logging.Err(err))
		}
		return candidate{}, false
	}

	if err := replaceWithRetry(newPath, libPath, 10, 250*time.Millisecond); err != nil {
		if m.log != nil {
			m.log.Warn("plugin library swap failed", logging.String("plugin", name), logging.Err(err))
		}
		return candidate{}, false
	}

	m.mu.Lock()
	m.compileTimes[sourceDir] = mtime
	m.mu.Unlock()

	return candidate{Name: name, SourcePath: sourceDir, LibPath: libPath}, true
}

// renderCompileCommand performs the {{.Source}}/{{.Output}} substitution
// on the configured compile command template.
func renderCompileCommand(template, source, output string) []string {
	replacer := strings.NewReplacer("{{.Source}}", source, "{{.Output}}", output)
	fields := strings.Fields(replacer.Replace(template))
	return fields
}

func runCompiler(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("empty compile command")
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(out))
	}
	return nil
}

// replaceWithRetry renames src over dst, retrying on failure (e.g. dst
// briefly held open by a Loader mid-Lookup) up to attempts times.
func replaceWithRetry(src, dst string, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			lastErr = err
			time.Sleep(delay)
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			lastErr = err
			time.Sleep(delay)
			continue
		}
		return nil
	}
	return lastErr
}

// latestModTime returns the most recent modification time among all
// regular files in dir (non-recursive), used to decide whether a
// source-mode candidate needs recompiling. The .so and .so.new libraries
// that compileSource writes into dir are not counted.
func latestModTime(dir string) time.Time {
	var latest time.Time
	entries, err := os.ReadDir(dir)
	if err != nil {
		return latest
	}
	for _, entry := range entries {
		if n := entry.Name(); strings.HasSuffix(n, ".so") || strings.HasSuffix(n, ".so.new") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}
