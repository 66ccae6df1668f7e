package errors

// 에러 상태 태그 상수 정의
// 프론트엔드는 이 태그를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 ====================
	UnauthorizationError = "UNAUTHORIZATION_ERROR" // 로그인 필요
	TokenError           = "TOKEN_ERROR"           // 잘못되었거나 만료된 토큰
	InvalidUser          = "INVALID_USER"          // 토큰의 사용자가 존재하지 않음
	WrongPassword        = "WRONG_PASSWORD"        // 비밀번호 불일치

	// ==================== 검증 ====================
	ValidationError = "VALIDATION_ERROR" // 입력값 검증 실패
	KeyError        = "KEY_ERROR"        // 필수 필드 누락
	InvalidSortKey  = "INVALID_SORT_KEY" // 지원하지 않는 정렬 키
	InvalidFileType = "INVALID_FILE_TYPE" // 이미지가 아닌 업로드

	// ==================== 리소스 ====================
	DoesNotExist    = "DOES_NOT_EXIST"   // 리소스 없음
	DuplicatedEntry = "DUPLICATED_ENTRY" // 유니크 필드 중복
	NoStock         = "NO_STOCK"         // 남은 수량 없음

	// ==================== 권한 ====================
	Forbidden = "FORBIDDEN" // 소유자 아님

	// ==================== 외부/내부 오류 ====================
	UpstreamAPIError    = "UPSTREAM_API_ERROR"    // 외부 API 비정상 응답
	InternalServerError = "INTERNAL_SERVER_ERROR" // 서버 오류
)
