package dto

import (
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/service"
)

// PlayerQuizResponse представляет вопрос для игрока: без пояснения и флагов правильности
type PlayerQuizResponse struct {
	ID         uint                  `json:"id"`
	Question   string                `json:"question"`
	CategoryID uint                  `json:"categoryId"`
	Choices    []helper.ChoiceOption `json:"choices"`
}

// AdminChoiceResponse представляет вариант ответа с флагом правильности
type AdminChoiceResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// AdminQuizResponse представляет викторину в формате для администратора
type AdminQuizResponse struct {
	ID          uint                  `json:"id"`
	Question    string                `json:"question"`
	Explanation string                `json:"explanation"`
	CategoryID  uint                  `json:"categoryId"`
	Choices     []AdminChoiceResponse `json:"choices"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ChoiceRequest представляет вариант ответа во входных данных
type ChoiceRequest struct {
	Text      string `json:"text" binding:"max=500"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizRequest представляет запрос на создание или обновление викторины.
// Бизнес-правила (число вариантов, правильный вариант) проверяет сервис и возвращает 422.
type QuizRequest struct {
	Question    string          `json:"question" binding:"max=2000"`
	Explanation string          `json:"explanation" binding:"max=4000"`
	CategoryID  uint            `json:"categoryId"`
	Choices     []ChoiceRequest `json:"choices" binding:"dive"`
}

// AnswerRequest представляет ответ игрока
type AnswerRequest struct {
	SelectedChoiceIDs []uint `json:"selectedChoiceIds"`
}

// AnswerResponse представляет вердикт по ответу
type AnswerResponse struct {
	IsCorrect         bool   `json:"isCorrect"`
	Explanation       string `json:"explanation"`
	CorrectChoiceIDs  []uint `json:"correctChoiceIds"`
	SelectedChoiceIDs []uint `json:"selectedChoiceIds"`
}

// ResultResponse представляет итог сессии по категории
type ResultResponse struct {
	CategoryID      uint    `json:"categoryId"`
	CategoryName    string  `json:"categoryName"`
	TotalQuestions  int64   `json:"totalQuestions"`
	CorrectAnswers  int64   `json:"correctAnswers"`
	ScorePercentage float64 `json:"scorePercentage"`
}

// NewPlayerQuizResponse создает DTO вопроса для игрока
func NewPlayerQuizResponse(quiz *entity.Quiz) *PlayerQuizResponse {
	if quiz == nil {
		return nil
	}
	return &PlayerQuizResponse{
		ID:         quiz.ID,
		Question:   quiz.Question,
		CategoryID: quiz.CategoryID,
		Choices:    helper.ConvertChoicesToOptions(quiz.Choices),
	}
}

// NewAdminQuizResponse создает DTO викторины для администратора
func NewAdminQuizResponse(quiz *entity.Quiz) *AdminQuizResponse {
	if quiz == nil {
		return nil
	}
	choices := make([]AdminChoiceResponse, len(quiz.Choices))
	for i, c := range quiz.Choices {
		choices[i] = AdminChoiceResponse{ID: c.ID, Text: c.Text, IsCorrect: c.IsCorrect}
	}
	return &AdminQuizResponse{
		ID:          quiz.ID,
		Question:    quiz.Question,
		Explanation: quiz.Explanation,
		CategoryID:  quiz.CategoryID,
		Choices:     choices,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
}

// NewListAdminQuizResponse создает слайс DTO для списка викторин
func NewListAdminQuizResponse(quizzes []entity.Quiz) []*AdminQuizResponse {
	list := make([]*AdminQuizResponse, len(quizzes))
	for i := range quizzes {
		list[i] = NewAdminQuizResponse(&quizzes[i])
	}
	return list
}

// ToInput преобразует запрос в входные данные сервиса
func (r *QuizRequest) ToInput() service.QuizInput {
	choices := make([]service.ChoiceInput, len(r.Choices))
	for i, c := range r.Choices {
		choices[i] = service.ChoiceInput{Text: c.Text, IsCorrect: c.IsCorrect}
	}
	return service.QuizInput{
		Question:    r.Question,
		Explanation: r.Explanation,
		CategoryID:  r.CategoryID,
		Choices:     choices,
	}
}

// NewAnswerResponse создает DTO вердикта
func NewAnswerResponse(result *service.AnswerResult) *AnswerResponse {
	return &AnswerResponse{
		IsCorrect:         result.IsCorrect,
		Explanation:       result.Explanation,
		CorrectChoiceIDs:  helper.NonNilIDs(result.CorrectChoiceIDs),
		SelectedChoiceIDs: helper.NonNilIDs(result.SelectedChoiceIDs),
	}
}

// NewResultResponse создает DTO результата
func NewResultResponse(result *service.CategoryResult) *ResultResponse {
	return &ResultResponse{
		CategoryID:      result.CategoryID,
		CategoryName:    result.CategoryName,
		TotalQuestions:  result.TotalQuestions,
		CorrectAnswers:  result.CorrectAnswers,
		ScorePercentage: result.ScorePercentage,
	}
}
