package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/service"
)

// ExportHandler обрабатывает выгрузки банка вопросов и статистики
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler создает новый обработчик выгрузок
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// GetCategoryStats возвращает статистику категории в JSON
// GET /api/admin/categories/{id}/stats
func (h *ExportHandler) GetCategoryStats(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	stats, err := h.exportService.CategoryStats(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportCategoryStats выгружает статистику категории
// GET /api/admin/export/categories/{id}/stats?format=csv|xlsx
func (h *ExportHandler) ExportCategoryStats(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)
	format, ok := exportFormat(c)
	if !ok {
		return
	}

	table, err := h.exportService.CategoryStatsTable(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, err)
		return
	}
	writeTable(c, table, format, fmt.Sprintf("category_%d_stats_%s", categoryID, time.Now().Format("20060102")))
}

// ExportQuizBank выгружает банк вопросов, опционально одной категории
// GET /api/admin/export/quizzes?format=csv|xlsx&category={id}
func (h *ExportHandler) ExportQuizBank(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	categoryID, err := middleware.OptionalUintQuery(c, "category")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := h.exportService.QuizBankTable(c.Request.Context(), categoryID)
	if err != nil {
		handleError(c, err)
		return
	}
	writeTable(c, table, format, fmt.Sprintf("quiz_bank_%s", time.Now().Format("20060102")))
}

// exportFormat читает ?format=, по умолчанию csv
func exportFormat(c *gin.Context) (string, bool) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use 'csv' or 'xlsx'"})
		return "", false
	}
	return format, true
}

func writeTable(c *gin.Context, table *service.Table, format, filename string) {
	if format == "xlsx" {
		exportXLSX(c, table, filename)
		return
	}
	exportCSV(c, table, filename)
}

// exportCSV экспортирует таблицу в CSV с BOM для корректного открытия в Excel
func exportCSV(c *gin.Context, table *service.Table, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(c.Writer)
	if err := w.Write(table.Headers); err != nil {
		log.Printf("[ExportHandler] Ошибка записи заголовков CSV: %v", err)
		return
	}
	for i, row := range table.Rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = sanitizeForExcel(fmt.Sprint(v))
		}
		if err := w.Write(record); err != nil {
			log.Printf("[ExportHandler] Ошибка записи строки CSV %d: %v", i+1, err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("[ExportHandler] Ошибка при Flush CSV: %v", err)
	}
}

// exportXLSX экспортирует таблицу в Excel с использованием StreamWriter
func exportXLSX(c *gin.Context, table *service.Table, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", table.Name)

	sw, err := f.NewStreamWriter(table.Name)
	if err != nil {
		log.Printf("[ExportHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		headers[i] = h
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ExportHandler] Ошибка записи заголовков: %v", err)
	}

	for i, row := range table.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, len(row))
		for j, v := range row {
			if s, ok := v.(string); ok {
				v = sanitizeForExcel(s)
			}
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			log.Printf("[ExportHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ExportHandler] Ошибка при Flush: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ExportHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
