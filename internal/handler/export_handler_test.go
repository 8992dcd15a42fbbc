package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quiz-api/internal/service"
)

func sampleTable() *service.Table {
	return &service.Table{
		Name:    "Вопросы",
		Headers: []string{"ID", "Вопрос", "Правильный"},
		Rows: [][]interface{}{
			{uint(1), "=SUM(A1:A2)", "Да"},
			{uint(2), "Обычный вопрос", "Нет"},
		},
	}
}

func TestSanitizeForExcel(t *testing.T) {
	testCases := map[string]string{
		"":        "",
		"=1+1":    "'=1+1",
		"+7":      "'+7",
		"-x":      "'-x",
		"@cmd":    "'@cmd",
		"\tTab":   "'\tTab",
		"обычный": "обычный",
		"a=b":     "a=b",
	}
	for input, want := range testCases {
		assert.Equal(t, want, sanitizeForExcel(input), "input %q", input)
	}
}

func TestExportCSV(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	exportCSV(c, sampleTable(), "bank")

	// Assert
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bank.csv"`, w.Header().Get("Content-Disposition"))
	body := w.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}), "CSV должен начинаться с BOM")

	records, err := csv.NewReader(bytes.NewReader(body[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Вопрос", "Правильный"}, records[0])
	assert.Equal(t, []string{"1", "'=SUM(A1:A2)", "Да"}, records[1])
}

func TestExportXLSX(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	exportXLSX(c, sampleTable(), "bank")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="bank.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Вопросы")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "'=SUM(A1:A2)", rows[1][1])
	assert.Equal(t, "Нет", rows[2][2])
}

func TestHealthHandler(t *testing.T) {
	router := gin.New()
	healthy := NewHealthHandler(map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return nil },
	})
	degraded := NewHealthHandler(map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	router.GET("/ok", healthy.Health)
	router.GET("/degraded", degraded.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","components":{"postgres":"up","redis":"up"}}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/degraded", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","components":{"postgres":"up","redis":"down"}}`, w.Body.String())
}
