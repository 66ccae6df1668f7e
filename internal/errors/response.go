package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Status  string `json:"status"`            // 상태 태그 (codes.go 참조)
	Message string `json:"message,omitempty"` // 사용자에게 보여질 메시지
}

// RespondWithError 에러 응답 헬퍼
func RespondWithError(c *gin.Context, statusCode int, status string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, status, message string) {
	if message == "" {
		message = "Login Required."
	}
	RespondWithError(c, http.StatusUnauthorized, status, message)
}

func BadRequest(c *gin.Context, status string, message string) {
	RespondWithError(c, http.StatusBadRequest, status, message)
}

func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, DoesNotExist, message)
}

func Conflict(c *gin.Context, status string, message string) {
	RespondWithError(c, http.StatusConflict, status, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal Server Error."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ParseAndRespond DB/드라이버 에러를 상태 태그로 변환해 응답한다.
// 중복 키는 409, 없는 참조는 404로 승격되고 나머지는 fallbackCode를 쓴다.
func ParseAndRespond(c *gin.Context, fallbackCode int, err error, context string) {
	info := ParseError(err, context)

	statusCode := fallbackCode
	switch info.Status {
	case DuplicatedEntry:
		statusCode = http.StatusConflict
	case DoesNotExist:
		statusCode = http.StatusNotFound
	}

	RespondWithError(c, statusCode, info.Status, info.Message)
}

// RespondWithMessages 구 클라이언트가 의존하는 {"messages": "..."} 형태의 응답
// 후원 경로의 NO_STOCK / KEY_ERROR / DOES_NOT_EXIST가 이 형태를 유지한다
func RespondWithMessages(c *gin.Context, statusCode int, tag string) {
	c.JSON(statusCode, gin.H{"messages": tag})
}
