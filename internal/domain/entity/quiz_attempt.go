package entity

import (
	"time"
)

// QuizAttempt фиксирует ответ игровой сессии на одну викторину.
// На пару (session_id, quiz_id) допускается не более одной записи.
type QuizAttempt struct {
	ID              uint                    `gorm:"primaryKey" json:"id"`
	SessionID       string                  `gorm:"size:64;not null;uniqueIndex:idx_attempt_session_quiz" json:"session_id"`
	QuizID          uint                    `gorm:"not null;uniqueIndex:idx_attempt_session_quiz;index" json:"quiz_id"`
	IsCorrect       bool                    `gorm:"not null" json:"is_correct"`
	SelectedChoices []AttemptSelectedChoice `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"selected_choices,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AttemptSelectedChoice хранит один выбранный вариант попытки.
// Внешнего ключа на choices нет: замена вариантов при редактировании не трогает историю.
type AttemptSelectedChoice struct {
	AttemptID uint `gorm:"primaryKey;autoIncrement:false" json:"attempt_id"`
	Position  int  `gorm:"primaryKey;autoIncrement:false" json:"position"`
	ChoiceID  uint `gorm:"not null" json:"choice_id"`
}

// TableName определяет имя таблицы для GORM
func (AttemptSelectedChoice) TableName() string {
	return "attempt_selected_choices"
}

// NewQuizAttempt собирает попытку с выбранными вариантами в исходном порядке
func NewQuizAttempt(sessionID string, quizID uint, selected []uint, isCorrect bool) *QuizAttempt {
	attempt := &QuizAttempt{
		SessionID: sessionID,
		QuizID:    quizID,
		IsCorrect: isCorrect,
	}
	for i, id := range selected {
		attempt.SelectedChoices = append(attempt.SelectedChoices, AttemptSelectedChoice{
			Position: i,
			ChoiceID: id,
		})
	}
	return attempt
}
