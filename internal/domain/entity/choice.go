package entity

// Choice представляет вариант ответа на вопрос викторины
type Choice struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	QuizID    uint   `gorm:"not null;index" json:"quiz_id"`
	Text      string `gorm:"type:text;not null" json:"text"`
	IsCorrect bool   `gorm:"not null;default:false" json:"is_correct"`
}

// TableName определяет имя таблицы для GORM
func (Choice) TableName() string {
	return "choices"
}
