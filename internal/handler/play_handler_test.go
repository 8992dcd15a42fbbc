package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// MockPlayer реализует Player
type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) NextQuiz(ctx context.Context, categoryID uint, sessionID string) (*entity.Quiz, error) {
	args := m.Called(ctx, categoryID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockPlayer) SubmitAnswer(ctx context.Context, quizID uint, sessionID string, selected []uint) (*service.AnswerResult, error) {
	args := m.Called(ctx, quizID, sessionID, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnswerResult), args.Error(1)
}

func (m *MockPlayer) Result(ctx context.Context, categoryID uint, sessionID string) (*service.CategoryResult, error) {
	args := m.Called(ctx, categoryID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CategoryResult), args.Error(1)
}

var testSession = helper.SessionCookie{Name: "sessionId", MaxAge: 7 * 24 * 3600}

const testSessionID = "3f1c2a9e-8b7d-4c6e-9a51-2d0f4e7b6c13"

func setupPlayRouter(player Player) *gin.Engine {
	h := NewPlayHandler(player, testSession)
	router := gin.New()
	api := router.Group("/api")
	api.GET("/quizzes", middleware.ExtractUintQuery("category", "categoryID"), h.NextQuiz)
	api.POST("/quizzes/:id/answer", middleware.ExtractUintParam("id", "quizID"), h.SubmitAnswer)
	api.GET("/result", middleware.ExtractUintQuery("category", "categoryID"), h.Result)
	return router
}

func withSession(req *http.Request, sessionID string) *http.Request {
	req.AddCookie(&http.Cookie{Name: testSession.Name, Value: sessionID})
	return req
}

func TestPlayHandler_NextQuiz_IssuesSessionCookie(t *testing.T) {
	// Arrange
	player := new(MockPlayer)
	router := setupPlayRouter(player)
	quiz := &entity.Quiz{ID: 4, Question: "Q?", Explanation: "secret", CategoryID: 1, Choices: []entity.Choice{
		{ID: 40, Text: "a", IsCorrect: true},
		{ID: 41, Text: "b"},
	}}
	player.On("NextQuiz", mock.Anything, uint(1), mock.AnythingOfType("string")).Return(quiz, nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quizzes?category=1", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "isCorrect", "Игрок не должен видеть флаги правильности")
	assert.NotContains(t, body, "secret", "Пояснение выдается только после ответа")
	assert.Contains(t, body, `"choices":[{"id":40,"text":"a"},{"id":41,"text":"b"}]`)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sessionId", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, 7*24*3600, cookies[0].MaxAge)
}

func TestPlayHandler_NextQuiz_KeepsExistingSession(t *testing.T) {
	player := new(MockPlayer)
	router := setupPlayRouter(player)
	player.On("NextQuiz", mock.Anything, uint(1), testSessionID).Return(nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/api/quizzes?category=1", nil), testSessionID))

	assert.Equal(t, http.StatusNoContent, w.Code, "Исчерпанная категория возвращает 204")
	assert.Empty(t, w.Body.String())
	player.AssertExpectations(t)
}

func TestPlayHandler_NextQuiz_ReplacesOversizedSession(t *testing.T) {
	// Arrange
	player := new(MockPlayer)
	router := setupPlayRouter(player)
	oversized := strings.Repeat("x", 200)
	player.On("NextQuiz", mock.Anything, uint(1), mock.MatchedBy(func(id string) bool {
		return id != oversized && len(id) <= 64
	})).Return(nil, nil)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/api/quizzes?category=1", nil), oversized))

	// Assert
	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, oversized, cookies[0].Value, "Некорректная cookie должна быть заменена")
	assert.Len(t, cookies[0].Value, 36, "Новая сессия должна быть UUID")
	player.AssertExpectations(t)
}

func TestPlayHandler_InvalidSessionIsMissing(t *testing.T) {
	testCases := []struct {
		name    string
		session string
	}{
		{"слишком длинная", strings.Repeat("x", 200)},
		{"не UUID", "not-a-session"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			player := new(MockPlayer)
			router := setupPlayRouter(player)

			answer := httptest.NewRecorder()
			router.ServeHTTP(answer, withSession(newJSONRequest(http.MethodPost, "/api/quizzes/7/answer", map[string]interface{}{
				"selectedChoiceIds": []uint{1},
			}), tc.session))
			result := httptest.NewRecorder()
			router.ServeHTTP(result, withSession(httptest.NewRequest(http.MethodGet, "/api/result?category=2", nil), tc.session))

			assert.Equal(t, http.StatusBadRequest, answer.Code)
			assert.Equal(t, "session_missing", parseJSONResponse(t, answer)["error_type"])
			assert.Equal(t, http.StatusBadRequest, result.Code)
			player.AssertNotCalled(t, "SubmitAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			player.AssertNotCalled(t, "Result", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPlayHandler_SubmitAnswer(t *testing.T) {
	testCases := []struct {
		name       string
		session    string
		body       interface{}
		serviceErr error
		wantStatus int
	}{
		{"без cookie сессии", "", map[string]interface{}{"selectedChoiceIds": []uint{1}}, nil, http.StatusBadRequest},
		{"некорректный JSON", testSessionID, `{"selectedChoiceIds":"x"}`, nil, http.StatusBadRequest},
		{"неизвестная викторина", testSessionID, map[string]interface{}{"selectedChoiceIds": []uint{1}}, fmt.Errorf("quiz #7: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"повторный ответ", testSessionID, map[string]interface{}{"selectedChoiceIds": []uint{1}}, fmt.Errorf("%w: quiz #7 already answered", apperrors.ErrConflict), http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			player := new(MockPlayer)
			router := setupPlayRouter(player)
			player.On("SubmitAnswer", mock.Anything, uint(7), testSessionID, []uint{1}).Return(nil, tc.serviceErr).Maybe()

			req := newJSONRequest(http.MethodPost, "/api/quizzes/7/answer", tc.body)
			if tc.session != "" {
				withSession(req, tc.session)
			}

			// Act
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, parseJSONResponse(t, w), "error")
		})
	}
}

func TestPlayHandler_SubmitAnswer_Success(t *testing.T) {
	player := new(MockPlayer)
	router := setupPlayRouter(player)
	player.On("SubmitAnswer", mock.Anything, uint(7), testSessionID, []uint{3, 1}).Return(&service.AnswerResult{
		QuizID:            7,
		IsCorrect:         true,
		Explanation:       "потому что",
		CorrectChoiceIDs:  []uint{1, 3},
		SelectedChoiceIDs: []uint{1, 3},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, withSession(newJSONRequest(http.MethodPost, "/api/quizzes/7/answer", map[string]interface{}{
		"selectedChoiceIds": []uint{3, 1},
	}), testSessionID))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isCorrect":true,"explanation":"потому что","correctChoiceIds":[1,3],"selectedChoiceIds":[1,3]}`, w.Body.String())
}

func TestPlayHandler_SubmitAnswer_EmptySelection(t *testing.T) {
	player := new(MockPlayer)
	router := setupPlayRouter(player)
	player.On("SubmitAnswer", mock.Anything, uint(7), testSessionID, []uint(nil)).Return(&service.AnswerResult{
		QuizID:           7,
		CorrectChoiceIDs: []uint{1},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, withSession(newJSONRequest(http.MethodPost, "/api/quizzes/7/answer", map[string]interface{}{}), testSessionID))

	require.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["isCorrect"])
	assert.Equal(t, []interface{}{}, resp["selectedChoiceIds"], "Пустой выбор сериализуется как []")
}

func TestPlayHandler_Result(t *testing.T) {
	t.Run("незавершённая сессия", func(t *testing.T) {
		player := new(MockPlayer)
		router := setupPlayRouter(player)
		player.On("Result", mock.Anything, uint(2), testSessionID).Return(nil, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/api/result?category=2", nil), testSessionID))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("завершённая сессия", func(t *testing.T) {
		player := new(MockPlayer)
		router := setupPlayRouter(player)
		player.On("Result", mock.Anything, uint(2), testSessionID).Return(&service.CategoryResult{
			CategoryID: 2, CategoryName: "Java", TotalQuestions: 2, CorrectAnswers: 1, ScorePercentage: 50.0,
		}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/api/result?category=2", nil), testSessionID))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"categoryId":2,"categoryName":"Java","totalQuestions":2,"correctAnswers":1,"scorePercentage":50}`, w.Body.String())
	})

	t.Run("без cookie", func(t *testing.T) {
		player := new(MockPlayer)
		router := setupPlayRouter(player)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/result?category=2", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		player.AssertNotCalled(t, "Result", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("неизвестная категория", func(t *testing.T) {
		player := new(MockPlayer)
		router := setupPlayRouter(player)
		player.On("Result", mock.Anything, uint(2), testSessionID).Return(nil, apperrors.ErrNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/api/result?category=2", nil), testSessionID))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
