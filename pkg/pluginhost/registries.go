package pluginhost

import "sync"

// Registries holds the two shared-data tables the host exposes to
// plugins: manager-scoped data, keyed by owning plugin name and kept
// alive across that plugin's unload/reload cycles, and plugin-scoped
// data, destroyed automatically when the owning plugin unloads.
//
// Both tables store opaque values (any) — the host never inspects what a
// plugin stashes here, it only owns the lifetime.
type Registries struct {
	mu     sync.RWMutex
	shared map[string]map[string]any // plugin name -> key -> value

	localMu sync.RWMutex
	local   map[string]map[string]any // plugin name -> key -> value
}

// NewRegistries creates an empty pair of registries.
func NewRegistries() *Registries {
	return &Registries{
		shared: make(map[string]map[string]any),
		local:  make(map[string]map[string]any),
	}
}

// SharedGet reads a manager-scoped value owned by plugin.
func (r *Registries) SharedGet(owner, key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket, ok := r.shared[owner]
	if !ok {
		return nil, false
	}
	v, ok := bucket[key]
	return v, ok
}

// SharedSet writes a manager-scoped value owned by plugin. The bucket
// survives that plugin's unload (forced or not); only SharedFree (one
// key) or SharedFreeAll (the whole bucket) removes its contents.
func (r *Registries) SharedSet(owner, key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.shared[owner]
	if !ok {
		bucket = make(map[string]any)
		r.shared[owner] = bucket
	}
	bucket[key] = value
}

// SharedFree removes a single manager-scoped key.
func (r *Registries) SharedFree(owner, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bucket, ok := r.shared[owner]; ok {
		delete(bucket, key)
	}
}

// SharedFreeAll drops every manager-scoped key owned by plugin. Nothing
// in the host calls it: neither Unload nor a reload clears manager-scoped
// data, since outliving the reload is the point of that data.
func (r *Registries) SharedFreeAll(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shared, owner)
}

// LocalGet reads a plugin-scoped value.
func (r *Registries) LocalGet(owner, key string) (any, bool) {
	r.localMu.RLock()
	defer r.localMu.RUnlock()
	bucket, ok := r.local[owner]
	if !ok {
		return nil, false
	}
	v, ok := bucket[key]
	return v, ok
}

// LocalSet writes a plugin-scoped value.
func (r *Registries) LocalSet(owner, key string, value any) {
	r.localMu.Lock()
	defer r.localMu.Unlock()
	bucket, ok := r.local[owner]
	if !ok {
		bucket = make(map[string]any)
		r.local[owner] = bucket
	}
	bucket[key] = value
}

// LocalFree removes a single plugin-scoped key.
func (r *Registries) LocalFree(owner, key string) {
	r.localMu.Lock()
	defer r.localMu.Unlock()
	if bucket, ok := r.local[owner]; ok {
		delete(bucket, key)
	}
}

// LocalFreeAll drops every plugin-scoped key owned by plugin. Called
// automatically by Unload, since plugin-scoped data's whole contract is
// that it does not survive the plugin it belongs to.
func (r *Registries) LocalFreeAll(owner string) {
	r.localMu.Lock()
	defer r.localMu.Unlock()
	delete(r.local, owner)
}

// ResourceStats reports the key counts in both registries for owner.
// Manager.Health() does not include these counts.
func (r *Registries) ResourceStats(owner string) (sharedKeys, localKeys int) {
	r.mu.RLock()
	sharedKeys = len(r.shared[owner])
	r.mu.RUnlock()

	r.localMu.RLock()
	localKeys = len(r.local[owner])
	r.localMu.RUnlock()
	return
}
