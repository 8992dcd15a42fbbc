package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExtractUintParamAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/quizzes/:id", ExtractUintParam("id", "quizID"), func(c *gin.Context) {
		c.String(http.StatusOK, fmt.Sprint(c.MustGet("quizID").(uint)))
	})
	router.GET("/result", ExtractUintQuery("category", "categoryID"), func(c *gin.Context) {
		c.String(http.StatusOK, fmt.Sprint(c.MustGet("categoryID").(uint)))
	})

	testCases := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/quizzes/15", http.StatusOK, "15"},
		{"/quizzes/abc", http.StatusBadRequest, "Invalid id"},
		{"/quizzes/0", http.StatusBadRequest, "Invalid id"},
		{"/quizzes/-1", http.StatusBadRequest, "Invalid id"},
		{"/result?category=3", http.StatusOK, "3"},
		{"/result", http.StatusBadRequest, "Missing category"},
		{"/result?category=x", http.StatusBadRequest, "Invalid category"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}
