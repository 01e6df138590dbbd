package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

func TestActiveLessonsCompositeKeyWinsOverBareDate(t *testing.T) {
	registry := NewLessonConfigRegistry()
	registry.Replace(map[string][]int{
		"2025-03-10":     {0, 1, 2},
		"c-1_2025-03-10": {0},
	}, nil, nil)

	assert.Equal(t, []int{0}, registry.ActiveLessons("c-1", "2025-03-10"))
	assert.Equal(t, []int{0, 1, 2}, registry.ActiveLessons("c-2", "2025-03-10"))
	assert.Equal(t, []int{0, 1, 2}, registry.ActiveLessons("", "2025-03-10"))
}

func TestEmptyCompositeEntryStillWins(t *testing.T) {
	registry := NewLessonConfigRegistry()
	registry.Replace(map[string][]int{
		"2025-03-10":     {0, 1, 2},
		"c-1_2025-03-10": {},
	}, nil, nil)

	assert.Empty(t, registry.ActiveLessons("c-1", "2025-03-10"))
}

func TestActiveLessonsDefaultsToSingleSlot(t *testing.T) {
	registry := NewLessonConfigRegistry()

	assert.Equal(t, []int{0}, registry.ActiveLessons("c-1", "2025-03-10"))
}

func TestSubjectAndTopicDefaultToEmpty(t *testing.T) {
	registry := NewLessonConfigRegistry()
	registry.Replace(nil, map[string]map[int]string{
		"c-1_2025-03-10": {0: "Matematica"},
	}, nil)

	assert.Equal(t, "Matematica", registry.Subject("c-1", "2025-03-10", 0))
	assert.Equal(t, "", registry.Subject("c-1", "2025-03-10", 1))
	assert.Equal(t, "", registry.Topic("c-1", "2025-03-10", 0))
}

func TestSetDayConfigFiltersAndSortsIndices(t *testing.T) {
	registry := NewLessonConfigRegistry()
	registry.SetDayConfig("c-1", "2025-03-10", models.DayConfig{
		ActiveLessons: []int{3, -1, 0},
		Subjects:      map[int]string{0: "Historia"},
	})

	cfg := registry.DayConfig("c-1", "2025-03-10")
	assert.Equal(t, []int{0, 3}, cfg.ActiveLessons)
	assert.Equal(t, "Historia", cfg.Subjects[0])
}

func TestSetDayConfigDoesNotTouchOtherClasses(t *testing.T) {
	registry := NewLessonConfigRegistry()
	registry.Replace(map[string][]int{"2025-03-10": {0, 1}}, nil, nil)

	registry.SetDayConfig("c-1", "2025-03-10", models.DayConfig{ActiveLessons: []int{0}})

	assert.Equal(t, []int{0}, registry.ActiveLessons("c-1", "2025-03-10"))
	assert.Equal(t, []int{0, 1}, registry.ActiveLessons("c-2", "2025-03-10"))
}
