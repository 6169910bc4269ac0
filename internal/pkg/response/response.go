package response

import (
	cErr "workforce/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
	Field       string `json:"field,omitempty"`
	Details     []any  `json:"details,omitempty"`
}

func Success(c *gin.Context, data any) {
	message := "Request Success"
	if msg, ok := data.(gin.H); ok {
		if m, ok := msg["message"].(string); ok && m != "" {
			message = m
			delete(msg, "message")
		}
	}
	c.Set("data", data)
	c.Set("message", message)
	c.Abort()
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, RequestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, Response{
		RequestID:   RequestID,
		Code:        errorCode,
		Data:        nil,
		Message:     msg,
		Description: desc,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, RequestID string, err error) {
	v := cErr.From(err)
	c.JSON(v.HttpCode(), Response{
		RequestID:   RequestID,
		Code:        v.ErrorCode(),
		Message:     v.Reason(),
		Description: v.ErrorDesc(),
		Field:       v.Field(),
		Details:     v.Details(),
	})
	c.Abort()
}
