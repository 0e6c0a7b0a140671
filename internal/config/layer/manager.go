package layer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors returned by Manager.
var (
	ErrLayerNotFound = errors.New("layer not found")
	ErrReadOnly      = errors.New("layer is read-only")
)

// Manager owns the layer stack and caches the merged view.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// Add inserts a layer, replacing any existing layer with the same name.
func (m *Manager) Add(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertLocked(l)
}

func (m *Manager) insertLocked(l *Layer) {
	if i := m.index(l.Name); i >= 0 {
		m.layers[i] = l
	} else {
		m.layers = append(m.layers, l)
	}
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// Remove drops the named layer and reports whether it was present.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(name)
	if i < 0 {
		return false
	}
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	m.dirty = true
	return true
}

// Layer returns the named layer or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(name); i >= 0 {
		return m.layers[i]
	}
	return nil
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Layer(nil), m.layers...)
}

// Merge returns a copy of the merged configuration.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.mergedLocked())
}

// Get returns the effective value at path.
func (m *Manager) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := GetByPath(m.mergedLocked(), path)
	return cloneValue(v), ok
}

// Origin returns the name of the highest layer that sets path.
func (m *Manager) Origin(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(m.layers[i].Data, path); ok {
			return m.layers[i].Name, true
		}
	}
	return "", false
}

// Set writes value into the named layer.
func (m *Manager) Set(name, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(name)
	if err != nil {
		return err
	}
	SetByPath(l.Data, path, value)
	m.dirty = true
	return nil
}

// SetInSession writes value into the session layer, creating it on first use.
func (m *Manager) SetInSession(path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := SourceSession.String()
	if m.index(name) < 0 {
		m.insertLocked(New(SourceSession))
	}
	SetByPath(m.layers[m.index(name)].Data, path, value)
	m.dirty = true
}

// Delete removes path from the named layer.
func (m *Manager) Delete(name, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(name)
	if err != nil {
		return err
	}
	if DeleteByPath(l.Data, path) {
		m.dirty = true
	}
	return nil
}

// Replace swaps the named layer's data for a copy of data.
func (m *Manager) Replace(name string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.writable(name)
	if err != nil {
		return err
	}
	l.Data = cloneMap(data)
	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	m.dirty = true
	return nil
}

func (m *Manager) writable(name string) (*Layer, error) {
	i := m.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, name)
	}
	l := m.layers[i]
	if l.ReadOnly {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	return l, nil
}

func (m *Manager) mergedLocked() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return m.merged
}

func (m *Manager) index(name string) int {
	for i, l := range m.layers {
		if l.Name == name {
			return i
		}
	}
	return -1
}
