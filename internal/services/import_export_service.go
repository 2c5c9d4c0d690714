package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ImportExportService handles file import/export for questions and test results
type ImportExportService interface {
	// ImportQuestions inserts every row in its own transaction. Failed rows
	// are reported with their sheet row number; the others stay committed.
	ImportQuestions(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*models.ImportSummary, error)

	// ExportQuestions writes questions in the import layout, so the output
	// can be uploaded again
	ExportQuestions(ctx context.Context, filters repositories.QuestionFilters, format string) ([]byte, string, error)
	ExportTestResults(ctx context.Context, testID uint) ([]byte, error)
}

type importExportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

var requiredImportColumns = []string{"subject_id", "topic_id", "question_type", "content"}

func (s *importExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string, creatorID uint) (*models.ImportSummary, error) {
	s.logger.Info("Starting question import", "filename", filename, "creator_id", creatorID)

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSVRows(reader)
	case ".xlsx":
		rows, err = readExcelRows(reader)
	default:
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	summary := &models.ImportSummary{Errors: []models.ImportRowError{}}
	if len(rows) == 0 {
		summary.Summary = formatImportSummary(summary)
		return summary, nil
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredImportColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewInputError(fmt.Sprintf("missing required column: %s", col))
		}
	}

	for rowIndex, record := range rows[1:] {
		rowNumber := rowIndex + 2
		if isBlankRow(record) {
			continue
		}

		if err := s.importRow(ctx, record, headerMap, creatorID); err != nil {
			summary.ErrorCount++
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     rowNumber,
				Message: s.rowErrorMessage(err, rowNumber),
			})
			continue
		}
		summary.SuccessCount++
	}

	summary.Summary = formatImportSummary(summary)
	s.logger.Info("Question import finished",
		"filename", filename,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)
	return summary, nil
}

func (s *importExportService) importRow(ctx context.Context, record []string, headerMap map[string]int, creatorID uint) error {
	req, err := parseQuestionRow(record, headerMap)
	if err != nil {
		return err
	}

	question, err := buildQuestion(s.validator, req)
	if err != nil {
		return err
	}
	question.CreatedBy = creatorID

	return s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := checkQuestionReferences(ctx, tx, question.SubjectID, question.TopicID); err != nil {
			return err
		}
		if err := tx.Question().Create(ctx, question); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
}

// rowErrorMessage keeps storage failures out of the client response
func (s *importExportService) rowErrorMessage(err error, rowNumber int) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs.Error()
	}

	s.logger.Error("Failed to import question row", "row", rowNumber, "error", err)
	return "failed to save question"
}

func parseQuestionRow(record []string, headerMap map[string]int) (*QuestionRequest, error) {
	cell := func(col string) string {
		idx, ok := headerMap[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	subjectID, err := strconv.ParseUint(cell("subject_id"), 10, 32)
	if err != nil {
		return nil, NewInputError(fmt.Sprintf("invalid subject_id: %q", cell("subject_id")))
	}
	topicID, err := strconv.ParseUint(cell("topic_id"), 10, 32)
	if err != nil {
		return nil, NewInputError(fmt.Sprintf("invalid topic_id: %q", cell("topic_id")))
	}

	return &QuestionRequest{
		SubjectID:    uint(subjectID),
		TopicID:      uint(topicID),
		QuestionType: models.QuestionType(cell("question_type")),
		Content:      cell("content"),
		Difficulty:   cell("difficulty"),
		Explanation:  cell("explanation"),
		Options:      parseOptionsCell(cell("options")),
	}, nil
}

// parseOptionsCell accepts a JSON list of {option_text, is_correct}. Anything
// else is read as a ';'-separated list of option texts, none marked correct.
func parseOptionsCell(value string) []OptionRequest {
	options := []OptionRequest{}
	if value == "" {
		return options
	}

	if err := json.Unmarshal([]byte(value), &options); err == nil {
		return options
	}

	options = options[:0]
	for _, part := range strings.Split(value, ";") {
		if text := strings.TrimSpace(part); text != "" {
			options = append(options, OptionRequest{OptionText: text})
		}
	}
	return options
}

func readCSVRows(reader io.Reader) ([][]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, NewInputError(fmt.Sprintf("failed to read CSV: %v", err))
	}
	return records, nil
}

func readExcelRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewInputError(fmt.Sprintf("failed to open Excel file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewInputError("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return rows, nil
}

func isBlankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func formatImportSummary(summary *models.ImportSummary) string {
	return fmt.Sprintf("%d questions added, %d errors found.", summary.SuccessCount, summary.ErrorCount)
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuestions(ctx context.Context, filters repositories.QuestionFilters, format string) ([]byte, string, error) {
	questions, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list questions: %w", err)
	}

	rows := make([][]interface{}, 0, len(questions))
	for _, q := range questions {
		row, err := questionToRow(q)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, row)
	}

	s.logger.Info("Exporting questions", "format", format, "count", len(rows))

	switch strings.ToLower(format) {
	case "", "csv":
		data, err := writeCSV(models.BulkUploadColumns, rows)
		return data, ContentTypeCSV, err
	case "xlsx":
		data, err := writeExcel("Questions", models.BulkUploadColumns, rows)
		return data, ContentTypeXLSX, err
	default:
		return nil, "", NewInputError(fmt.Sprintf("unsupported export format: %q", format))
	}
}

var resultColumns = []string{"attempt_id", "user_id", "email", "started_at", "submitted_at", "score", "answers"}

func (s *importExportService) ExportTestResults(ctx context.Context, testID uint) ([]byte, error) {
	if _, err := s.repo.Test().GetByID(ctx, testID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	attempts, err := s.repo.Attempt().ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	emails := make(map[uint]string)
	rows := make([][]interface{}, 0, len(attempts))
	for _, a := range attempts {
		email, ok := emails[a.UserID]
		if !ok {
			// Deleted users keep their attempts; the email column stays empty
			if user, err := s.repo.User().GetByID(ctx, a.UserID); err == nil {
				email = user.Email
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to get user: %w", err)
			}
			emails[a.UserID] = email
		}

		var submitted, score interface{}
		if a.SubmittedAt != nil {
			submitted = a.SubmittedAt.Format(time.RFC3339)
		}
		if a.Score != nil {
			score = *a.Score
		}

		rows = append(rows, []interface{}{
			a.ID, a.UserID, email, a.StartedAt.Format(time.RFC3339), submitted, score, string(a.Answers),
		})
	}

	s.logger.Info("Exporting test results", "test_id", testID, "attempts", len(rows))
	return writeExcel("Results", resultColumns, rows)
}

func questionToRow(q *models.Question) ([]interface{}, error) {
	options := make([]OptionRequest, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, OptionRequest{OptionText: opt.OptionText, IsCorrect: opt.IsCorrect})
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	return []interface{}{
		q.SubjectID, q.TopicID, string(q.QuestionType), q.Content, q.Difficulty, q.Explanation, string(optionsJSON),
	}, nil
}

func writeCSV(headers []string, rows [][]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, v := range row {
			if v == nil {
				record[i] = ""
				continue
			}
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// writeExcel renames the default sheet so the data is on the first sheet,
// which is the one ImportQuestions reads
func writeExcel(sheetName string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name Excel sheet: %w", err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
