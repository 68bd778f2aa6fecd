package cache

import (
	"strings"
	"sync"

	"github.com/jhoicas/veterinaria-api/internal/application/billing"
)

var _ billing.ViewCache = (*Memory)(nil)

// Memory cache de vistas en memoria, invalidable por prefijo. Respalda los
// listados de facturación; las escrituras del motor invalidan el prefijo de
// la clínica (fire-and-forget, nunca falla la operación que lo dispara).
type Memory struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewMemory construye el cache vacío.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]any)}
}

// Get devuelve el valor cacheado para key, si existe.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// Set guarda el valor bajo key, reemplazando el anterior.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// InvalidatePrefix elimina toda entrada cuya clave empiece por prefix.
func (m *Memory) InvalidatePrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

// Len cantidad de entradas vivas (para tests y métricas simples).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
