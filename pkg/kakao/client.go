package kakao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInvalidToken 카카오가 액세스 토큰을 거부한 경우
	ErrInvalidToken = errors.New("kakao access token rejected")
	// ErrNetworkError 카카오 API에 도달하지 못한 경우
	ErrNetworkError = errors.New("kakao network error")
	// ErrUpstreamError 카카오가 2xx/401 외의 응답을 돌려준 경우
	ErrUpstreamError = errors.New("kakao upstream error")
)

const defaultUserInfoURL = "https://kapi.kakao.com/v2/user/me"

// UserInfo 카카오 사용자 정보 조회 응답
type UserInfo struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
}

// IdentityProvider 액세스 토큰으로 카카오 사용자 정보를 조회한다.
// 테스트에서 가짜 구현으로 바꿔 끼울 수 있도록 인터페이스로 둔다.
type IdentityProvider interface {
	GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// Client represents a Kakao identity API client
type Client struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewClient creates a new Kakao client. userInfoURL이 비어 있으면 기본 엔드포인트를 쓴다.
func NewClient(userInfoURL string) *Client {
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}
	return &Client{
		userInfoURL: userInfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUserInfo 액세스 토큰으로 카카오 사용자 프로필을 조회한다.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidToken, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUpstreamError, resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("%w: missing kakao id", ErrUpstreamError)
	}

	return &info, nil
}
