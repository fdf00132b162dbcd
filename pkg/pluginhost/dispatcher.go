package pluginhost

import (
	"fmt"

	"github.com/genotrance/plugins/pkg/errors"
	"github.com/genotrance/plugins/pkg/logging"
	"github.com/genotrance/plugins/pkg/plugin"
)

// Dispatcher invokes plugin callbacks with crash containment: a panic
// inside a plugin's callback is recovered and turned into a notify
// message rather than taking the host process down. A crash in OnTick or
// in a routed command leads the caller (Manager.Sync, Router) to unload
// the offending plugin; a crash in OnNotify or OnReady only nulls that
// one callback slot and does not unload the plugin; a crash in OnUnload
// is reported only.
//
// The crash-containment shape — goroutine + recover, no timeout — is
// grounded on the teacher ecosystem's safeInitPlugin/safeStartPlugin
// pattern (go-lynx-lynx/lifecycle.go), adapted: this host never imposes a
// callback timeout, since a hung callback hanging the host goroutine is
// the documented, deliberate boundary behavior, not a bug to paper over.
type Dispatcher struct {
	log    *logging.Logger
	notify NotifyFunc
}

// NotifyFunc broadcasts a host-generated message, e.g. to every loaded
// plugin's OnNotify. Set via SetNotifier so the Dispatcher can surface a
// callback crash as a notify without importing Manager.
type NotifyFunc func(message string)

// NewDispatcher constructs a Dispatcher that logs crashes through log.
func NewDispatcher(log *logging.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// SetNotifier wires the sink a callback crash is broadcast through. Left
// nil, crashes are only logged.
func (d *Dispatcher) SetNotifier(fn NotifyFunc) {
	d.notify = fn
}

// invokeResult carries a callback's outcome back across the recover
// boundary.
type invokeResult struct {
	cmd     *plugin.CmdData
	invoked bool
	panic   any
}

// Invoke calls the named callback on r, if resolved, inside a
// recover-wrapped goroutine. It blocks until the callback returns or
// panics — by design, there is no timeout. ok is false if the symbol is
// not resolved on r (not itself an error: most plugins implement only a
// subset of the optional lifecycle symbols).
func (d *Dispatcher) Invoke(r *Record, symbolName string, cmd *plugin.CmdData) (ok, crashed bool) {
	cb, resolved := r.callback(symbolName)
	if !resolved {
		return false, false
	}

	done := make(chan invokeResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- invokeResult{cmd: cmd, panic: p}
				return
			}
			done <- invokeResult{cmd: cmd, invoked: true}
		}()
		cb(r, cmd)
	}()

	res := <-done
	if res.panic != nil {
		d.handleCrash(r, symbolName, res.panic)
		return true, true
	}
	return true, false
}

func (d *Dispatcher) handleCrash(r *Record, symbolName string, recovered any) {
	err := errors.NewCallbackError(r.Name(), symbolName, fmt.Errorf("%v", recovered))
	if d.log != nil {
		d.log.Error("plugin callback panicked", logging.String("plugin", r.Name()), logging.String("callback", symbolName), logging.Err(err))
	}
	if d.notify != nil {
		d.notify(fmt.Sprintf("Plugin '%s' callback '%s' crashed: %v", r.Name(), symbolName, recovered))
	}
}

// NotifyAll broadcasts message to OnNotify on every plugin in order,
// using a pre-captured snapshot so a callback that mutates the table (by
// triggering a load/unload) never changes the set of recipients for this
// broadcast. A crash in OnNotify additionally nulls that plugin's
// resolved OnNotify symbol, per the documented boundary behavior — the
// plugin itself is not unloaded, only that one callback slot.
func (d *Dispatcher) NotifyAll(snapshot []*Record, message string) {
	for _, r := range snapshot {
		cmd := plugin.NewCmdData("OnNotify", message)
		ok, crashed := d.Invoke(r, symOnNotify, cmd)
		if ok && crashed {
			r.mu.Lock()
			delete(r.callbacks, symOnNotify)
			r.mu.Unlock()
		}
	}
}

// ReadyAll fires OnReady on every plugin in the snapshot, in order. A
// crash nulls that plugin's OnReady slot, matching NotifyAll's rule.
func (d *Dispatcher) ReadyAll(snapshot []*Record) {
	for _, r := range snapshot {
		cmd := plugin.NewCmdData("OnReady")
		ok, crashed := d.Invoke(r, symOnReady, cmd)
		if ok && crashed {
			r.mu.Lock()
			delete(r.callbacks, symOnReady)
			r.mu.Unlock()
		}
	}
}

// TickAll fires OnTick on every plugin in the snapshot, in order. A crash
// in OnTick unloads the offending plugin — the caller (Manager.Sync) is
// expected to pass the crashed name to its Unloader.
func (d *Dispatcher) TickAll(snapshot []*Record, tick int) []string {
	var crashedNames []string
	for _, r := range snapshot {
		cmd := plugin.NewCmdData("OnTick", fmt.Sprintf("%d", tick))
		ok, crashed := d.Invoke(r, symOnTick, cmd)
		if ok && crashed {
			crashedNames = append(crashedNames, r.Name())
		}
	}
	return crashedNames
}

// CallCommand dispatches an arbitrary verb/callback name on r and reports
// whether it crashed. CallCommand itself does not unload r; the Router
// unloads a plugin whose routed command crashed.
func (d *Dispatcher) CallCommand(r *Record, name string, cmd *plugin.CmdData) (ok, crashed bool) {
	return d.Invoke(r, name, cmd)
}
