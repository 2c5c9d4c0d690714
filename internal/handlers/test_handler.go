package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	BaseHandler
	testService         services.TestService
	attemptService      services.AttemptService
	analyticsService    services.AnalyticsService
	importExportService services.ImportExportService
}

func NewTestHandler(
	testService services.TestService,
	attemptService services.AttemptService,
	analyticsService services.AnalyticsService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *TestHandler {
	return &TestHandler{
		BaseHandler:         NewBaseHandler(logger),
		testService:         testService,
		attemptService:      attemptService,
		analyticsService:    analyticsService,
		importExportService: importExportService,
	}
}

// ===== TEST CATALOG =====

// CreateTest creates a test and links its questions
// @Summary Create test
// @Tags tests
// @Accept json
// @Produce json
// @Param test body services.CreateTestRequest true "Test data"
// @Success 201 {object} services.CreateTestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /tests [post]
func (h *TestHandler) CreateTest(c *gin.Context) {
	h.LogRequest(c, "Creating test")

	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.CreateTestRequest
	if !h.bindJSON(c, &req) {
		return
	}

	test, err := h.testService.Create(c.Request.Context(), &req, principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.log(c).Info("Test created", "test_id", test.ID)
	c.JSON(http.StatusCreated, services.CreateTestResponse{
		ID:      test.ID,
		Message: "Test created successfully",
	})
}

// ListTests lists the tests visible to the caller
// @Summary List tests
// @Tags tests
// @Produce json
// @Success 200 {array} models.Test
// @Failure 401 {object} ErrorResponse
// @Router /tests [get]
func (h *TestHandler) ListTests(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	tests, err := h.testService.List(c.Request.Context(), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tests)
}

// GetTest
// @Summary Get test
// @Tags tests
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} models.Test
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	test, err := h.testService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// UpdateTest changes the supplied fields and optionally replaces the question set
// @Summary Update test
// @Tags tests
// @Accept json
// @Produce json
// @Param id path uint true "Test ID"
// @Param test body services.UpdateTestRequest true "Fields to change"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [put]
func (h *TestHandler) UpdateTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating test", "test_id", id)

	var req services.UpdateTestRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if _, err := h.testService.Update(c.Request.Context(), id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Test updated successfully"})
}

// DeleteTest removes a test with its links and assignments
// @Summary Delete test
// @Tags tests
// @Param id path uint true "Test ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [delete]
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting test", "test_id", id)

	if err := h.testService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTestQuestions returns the test's questions with their options
// @Summary Get test questions
// @Tags tests
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/questions [get]
func (h *TestHandler) GetTestQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	questions, err := h.testService.GetQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// ===== ASSIGNMENTS AND ATTEMPTS =====

// AssignTest grants users access to a test
// @Summary Assign test
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path uint true "Test ID"
// @Param assignment body services.AssignTestRequest true "Assignment"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/assign [post]
func (h *TestHandler) AssignTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := h.principal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Assigning test", "test_id", id)

	var req services.AssignTestRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.attemptService.Assign(c.Request.Context(), id, &req, principal.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Test assigned successfully"})
}

// SubmitAttempt records the caller's single attempt
// @Summary Submit attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path uint true "Test ID"
// @Param attempt body services.SubmitAttemptRequest true "Answers"
// @Success 200 {object} services.SubmitAttemptResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tests/{id}/attempt [post]
func (h *TestHandler) SubmitAttempt(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := h.principal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting attempt", "test_id", id)

	var req services.SubmitAttemptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	attempt, err := h.attemptService.Submit(c.Request.Context(), id, &req, principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.SubmitAttemptResponse{
		AttemptID: attempt.ID,
		Message:   "Attempt submitted successfully",
	})
}

// GetAttempt returns the caller's own attempt
// @Summary Get own attempt
// @Tags attempts
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} models.TestAttempt
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/attempt [get]
func (h *TestHandler) GetAttempt(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := h.principal(c)
	if !ok {
		return
	}

	attempt, err := h.attemptService.GetAttempt(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// GetResults lists attempts for a test, scoped to the caller unless they may view all
// @Summary Get results
// @Tags attempts
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {array} models.TestAttempt
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/results [get]
func (h *TestHandler) GetResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := h.principal(c)
	if !ok {
		return
	}

	results, err := h.attemptService.GetResults(c.Request.Context(), id, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ExportResults downloads every attempt of a test as a workbook
// @Summary Export results
// @Tags attempts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Test ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/results/export [get]
func (h *TestHandler) ExportResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Exporting results", "test_id", id)

	data, err := h.importExportService.ExportTestResults(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="test-%d-results.xlsx"`, id))
	c.Data(http.StatusOK, services.ContentTypeXLSX, data)
}

// ===== ANALYTICS =====

// GetAnalytics
// @Summary Get test analytics
// @Tags analytics
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} models.TestAnalytics
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/analytics [get]
func (h *TestHandler) GetAnalytics(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	analytics, err := h.analyticsService.GetTestAnalytics(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
