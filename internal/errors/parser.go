package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  string // 상태 태그 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ParseError 에러를 파싱하여 상태 태그와 메시지로 변환
// 내부 정보는 숨기되 사용자가 문제를 해결할 수 있는 정보는 남긴다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: InternalServerError, Message: "Internal Server Error."}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: DoesNotExist, Message: notFoundMessage(context)}
	}

	// PostgreSQL 드라이버 에러
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return duplicateEntryInfo(pqErr.Error())
		case pgForeignKeyViolation:
			return ErrorInfo{Status: DoesNotExist, Message: "Referenced entry does not exist."}
		}
	}

	// 드라이버 타입을 못 쓰는 경로(래핑된 에러 등)는 문자열로 판별
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return duplicateEntryInfo(errStr)
	}
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{Status: DoesNotExist, Message: "Referenced entry does not exist."}
	}
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{Status: UpstreamAPIError, Message: "External service unavailable."}
	}

	return ErrorInfo{Status: InternalServerError, Message: "Internal Server Error."}
}

func duplicateEntryInfo(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Status: DuplicatedEntry, Message: "Entry email is duplicated."}
	}
	if strings.Contains(errLower, "kakao_id") {
		return ErrorInfo{Status: DuplicatedEntry, Message: "Entry kakao_id is duplicated."}
	}

	return ErrorInfo{Status: DuplicatedEntry, Message: "Entry is duplicated."}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "project") {
		return "Project does not exist."
	}
	if strings.Contains(contextLower, "option") {
		return "Funding option does not exist."
	}
	if strings.Contains(contextLower, "user") {
		return "User does not exist."
	}

	return "Requested entry does not exist."
}
