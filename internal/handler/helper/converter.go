package helper

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// ChoiceOption представляет вариант ответа для игрока, без флага правильности
type ChoiceOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// ConvertChoicesToOptions преобразует варианты викторины в формат для игрока.
// Флаг IsCorrect намеренно не переносится.
func ConvertChoicesToOptions(choices []entity.Choice) []ChoiceOption {
	converted := make([]ChoiceOption, len(choices))
	for i, c := range choices {
		converted[i] = ChoiceOption{ID: c.ID, Text: c.Text}
	}
	return converted
}

// NonNilIDs возвращает пустой срез вместо nil, чтобы в JSON был [] а не null
func NonNilIDs(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
