package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	BaseHandler
	subjectService services.SubjectService
}

func NewSubjectHandler(subjectService services.SubjectService, logger utils.Logger) *SubjectHandler {
	return &SubjectHandler{
		BaseHandler:    NewBaseHandler(logger),
		subjectService: subjectService,
	}
}

// CreateSubject adds a subject to the catalog
// @Summary Create subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param subject body services.SubjectRequest true "Subject"
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /subjects [post]
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	h.LogRequest(c, "Creating subject")

	var req services.SubjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subject, err := h.subjectService.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// ListSubjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Success 200 {array} models.Subject
// @Router /subjects [get]
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.subjectService.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// CreateTopic adds a topic under a subject
// @Summary Create topic
// @Tags subjects
// @Accept json
// @Produce json
// @Param id path uint true "Subject ID"
// @Param topic body services.TopicRequest true "Topic"
// @Success 201 {object} models.Topic
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /subjects/{id}/topics [post]
func (h *SubjectHandler) CreateTopic(c *gin.Context) {
	subjectID := h.parseIDParam(c, "id")
	if subjectID == 0 {
		return
	}

	h.LogRequest(c, "Creating topic", "subject_id", subjectID)

	var req services.TopicRequest
	if !h.bindJSON(c, &req) {
		return
	}

	topic, err := h.subjectService.CreateTopic(c.Request.Context(), subjectID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, topic)
}

// ListTopics
// @Summary List topics of a subject
// @Tags subjects
// @Produce json
// @Param id path uint true "Subject ID"
// @Success 200 {array} models.Topic
// @Failure 404 {object} ErrorResponse
// @Router /subjects/{id}/topics [get]
func (h *SubjectHandler) ListTopics(c *gin.Context) {
	subjectID := h.parseIDParam(c, "id")
	if subjectID == 0 {
		return
	}

	topics, err := h.subjectService.ListTopics(c.Request.Context(), subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, topics)
}
