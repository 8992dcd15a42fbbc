package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

func TestExportService_CategoryStats(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, java, q1, q2 := javaFixture()
	play := newMemPlayService(store, nil)
	export := NewExportService(memCategories{store}, memQuizzes{store}, memAttempts{store})

	_, _ = play.SubmitAnswer(ctx, q1.ID, "a", []uint{q1.Choices[0].ID})
	_, _ = play.SubmitAnswer(ctx, q1.ID, "b", []uint{q1.Choices[1].ID})
	_, _ = play.SubmitAnswer(ctx, q2.ID, "a", []uint{q2.Choices[1].ID, q2.Choices[3].ID})

	// Act
	stats, err := export.CategoryStats(ctx, java.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Java", stats.CategoryName)
	assert.Equal(t, int64(2), stats.TotalQuizzes)
	assert.Equal(t, int64(3), stats.Attempts)
	assert.Equal(t, int64(2), stats.Correct)
	assert.Equal(t, int64(2), stats.Sessions)
	assert.Equal(t, 66.7, stats.AccuracyPct)
	require.Len(t, stats.Quizzes, 2)
	assert.Equal(t, 50.0, stats.Quizzes[0].AccuracyPct)
	assert.Equal(t, 100.0, stats.Quizzes[1].AccuracyPct)
}

func TestExportService_CategoryStats_UnknownCategory(t *testing.T) {
	store := newMemStore()
	export := NewExportService(memCategories{store}, memQuizzes{store}, memAttempts{store})

	_, err := export.CategoryStats(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExportService_QuizBankTable(t *testing.T) {
	ctx := context.Background()
	store, java, q1, _ := javaFixture()
	sql := store.addCategory("SQL")
	store.addQuiz(sql.ID, "SELECT?", true, false, false, false)
	export := NewExportService(memCategories{store}, memQuizzes{store}, memAttempts{store})

	all, err := export.QuizBankTable(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 12, "Одна строка на каждый вариант ответа")
	assert.Len(t, all.Headers, len(all.Rows[0]))

	javaOnly, err := export.QuizBankTable(ctx, &java.ID)
	require.NoError(t, err)
	require.Len(t, javaOnly.Rows, 8)
	assert.Equal(t, q1.ID, javaOnly.Rows[0][0])
	assert.Equal(t, "Java", javaOnly.Rows[0][1])
	assert.Equal(t, "Да", javaOnly.Rows[0][6])
	assert.Equal(t, "Нет", javaOnly.Rows[1][6])
}
