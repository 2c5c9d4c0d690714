package handlers

import (
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// MessageResponse represents a success response that carries only a message
type MessageResponse struct {
	Message string `json:"message"`
}

// BaseHandler gives every resource handler request-scoped logging and the
// shared error mapping in helper.go
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// log returns the logger tagged by utils.ContextLogger, plus the caller id
// once the auth middleware has run
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	l := utils.RequestLogger(c, h.logger)
	if userID, ok := c.Get("user_id"); ok {
		l = l.With("user_id", userID)
	}
	return l
}

func (h *BaseHandler) LogRequest(c *gin.Context, message string, fields ...interface{}) {
	h.log(c).Info(message, append(fields, "remote_addr", c.ClientIP())...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, fields ...interface{}) {
	h.log(c).LogError(err, message, fields...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, fields ...interface{}) {
	h.log(c).Warn(message, fields...)
}

// RespondWithError logs at error level when err is set, warn otherwise
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	resp := ErrorResponse{Message: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}

	if err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode)
	}

	c.JSON(statusCode, resp)
}
