package entity

import (
	"sort"
	"time"
)

// Quiz представляет вопрос викторины с вариантами ответа
type Quiz struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Explanation string    `gorm:"type:text;not null;default:''" json:"explanation"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Choices     []Choice  `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// CorrectChoiceIDs возвращает отсортированные ID правильных вариантов
func (q *Quiz) CorrectChoiceIDs() []uint {
	ids := make([]uint, 0, len(q.Choices))
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasCorrectChoice проверяет, что хотя бы один вариант отмечен правильным
func (q *Quiz) HasCorrectChoice() bool {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return true
		}
	}
	return false
}

// NormalizeChoiceIDs сортирует ID и убирает дубликаты.
// Для пустого ввода возвращает пустой (не nil) срез.
func NormalizeChoiceIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SameChoiceSet сравнивает выбранные и правильные варианты как множества:
// порядок не важен, повторы схлопываются, частичный ответ неверен.
func SameChoiceSet(selected, correct []uint) bool {
	a := NormalizeChoiceIDs(selected)
	b := NormalizeChoiceIDs(correct)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
