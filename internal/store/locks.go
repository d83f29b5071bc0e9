package store

import "sync"

// tenantLocks hands out one mutex per tenant. Different tenants never
// contend; the map only grows to the size of the tenant set.
type tenantLocks struct {
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
}

func newTenantLocks() *tenantLocks {
	return &tenantLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a tenant, creating one if needed.
func (l *tenantLocks) get(tenant string) *sync.Mutex {
	// Fast path: read lock
	l.mu.RLock()
	m, exists := l.locks[tenant]
	l.mu.RUnlock()

	if exists {
		return m
	}

	// Slow path: write lock to create
	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if m, exists = l.locks[tenant]; exists {
		return m
	}

	m = &sync.Mutex{}
	l.locks[tenant] = m
	return m
}

// lock acquires the tenant's mutex and returns its release func.
func (l *tenantLocks) lock(tenant string) func() {
	m := l.get(tenant)
	m.Lock()
	return m.Unlock
}
