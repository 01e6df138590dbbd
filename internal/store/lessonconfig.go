package store

import (
	"sort"
	"sync"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

// LessonConfigRegistry holds per-day lesson configuration: which slots are
// active and the subject/topic text per slot. Entries written before
// per-class configuration existed are keyed by bare date; modern entries by
// "{classID}_{date}". Every lookup tries the composite key first and the
// bare date second; the composite entry wins even when its value is empty.
// The grid, the statistics aggregator and the diary all resolve through this
// one implementation so precedence can never diverge.
type LessonConfigRegistry struct {
	mu sync.RWMutex

	active   map[string][]int
	subjects map[string]map[int]string
	topics   map[string]map[int]string
}

// NewLessonConfigRegistry builds an empty registry.
func NewLessonConfigRegistry() *LessonConfigRegistry {
	return &LessonConfigRegistry{
		active:   make(map[string][]int),
		subjects: make(map[string]map[int]string),
		topics:   make(map[string]map[int]string),
	}
}

// Replace swaps in freshly loaded maps.
func (r *LessonConfigRegistry) Replace(active map[string][]int, subjects, topics map[string]map[int]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if active == nil {
		active = make(map[string][]int)
	}
	if subjects == nil {
		subjects = make(map[string]map[int]string)
	}
	if topics == nil {
		topics = make(map[string]map[int]string)
	}
	r.active = active
	r.subjects = subjects
	r.topics = topics
}

// SetDayConfig replaces the three composite-key entries for one class day.
func (r *LessonConfigRegistry) SetDayConfig(classID, date string, cfg models.DayConfig) {
	key := models.LessonKey(classID, date)
	r.mu.Lock()
	defer r.mu.Unlock()

	indices := append([]int(nil), cfg.ActiveLessons...)
	filtered := indices[:0]
	for _, idx := range indices {
		if idx >= 0 {
			filtered = append(filtered, idx)
		}
	}
	sort.Ints(filtered)
	r.active[key] = filtered
	r.subjects[key] = copySlotMap(cfg.Subjects)
	r.topics[key] = copySlotMap(cfg.Topics)
}

// DayConfig returns the resolved configuration for one class day.
func (r *LessonConfigRegistry) DayConfig(classID, date string) models.DayConfig {
	return models.DayConfig{
		ActiveLessons: r.ActiveLessons(classID, date),
		Subjects:      r.slotMap(r.subjects, classID, date),
		Topics:        r.slotMap(r.topics, classID, date),
	}
}

// ActiveLessons resolves the active slot indices for a class day. A day with
// no entry under either key defaults to a single lesson, slot 0.
func (r *LessonConfigRegistry) ActiveLessons(classID, date string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if indices, ok := resolve(r.active, classID, date); ok {
		return append([]int(nil), indices...)
	}
	return []int{0}
}

// Subject resolves the subject text for one lesson slot, "" when unset.
func (r *LessonConfigRegistry) Subject(classID, date string, lessonIndex int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if slots, ok := resolve(r.subjects, classID, date); ok {
		return slots[lessonIndex]
	}
	return ""
}

// Topic resolves the topic text for one lesson slot, "" when unset.
func (r *LessonConfigRegistry) Topic(classID, date string, lessonIndex int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if slots, ok := resolve(r.topics, classID, date); ok {
		return slots[lessonIndex]
	}
	return ""
}

// Export returns deep copies of the three maps for snapshot persistence.
func (r *LessonConfigRegistry) Export() (map[string][]int, map[string]map[int]string, map[string]map[int]string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make(map[string][]int, len(r.active))
	for key, indices := range r.active {
		active[key] = append([]int(nil), indices...)
	}
	return active, copyKeyedSlotMaps(r.subjects), copyKeyedSlotMaps(r.topics)
}

// resolve implements the composite-then-bare-date lookup. The composite key
// wins whenever it is present, even with an empty value.
func resolve[V any](m map[string]V, classID, date string) (V, bool) {
	if classID != "" {
		if v, ok := m[models.LessonKey(classID, date)]; ok {
			return v, true
		}
	}
	v, ok := m[date]
	return v, ok
}

func (r *LessonConfigRegistry) slotMap(m map[string]map[int]string, classID, date string) map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if slots, ok := resolve(m, classID, date); ok {
		return copySlotMap(slots)
	}
	return map[int]string{}
}

func copySlotMap(m map[int]string) map[int]string {
	out := make(map[int]string, len(m))
	for slot, text := range m {
		out[slot] = text
	}
	return out
}

func copyKeyedSlotMaps(m map[string]map[int]string) map[string]map[int]string {
	out := make(map[string]map[int]string, len(m))
	for key, slots := range m {
		out[key] = copySlotMap(slots)
	}
	return out
}
