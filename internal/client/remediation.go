// 자동 수정 백엔드(Carla fixer)와 HTTP 통신하는 클라이언트 정의
//
// 환경변수:
//   - REMEDIATION_URL: 수정 백엔드 URL (예: http://carla-fixer.interworky.svc:8000)
//   - REMEDIATION_TIMEOUT: 요청당 제한 시간 (default: 30s)
//
// 수정 백엔드에 전달하는 데이터:
//   - errorId: Incident ID
//   - organizationId: 테넌트 ID

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/interworky/error-tracker/internal/config"
	apperrors "github.com/interworky/error-tracker/internal/errors"
)

const defaultRemediationURL = "http://carla-fixer.interworky.svc:8000"

// APIError - 수정 백엔드의 non-2xx 응답
type APIError struct {
	StatusCode int
	Body       string // 최대 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remediation backend returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Is - 502/503/504 는 ErrUnavailable
func (e *APIError) Is(target error) bool {
	if target != apperrors.ErrUnavailable {
		return false
	}
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// FixRequest - POST /fix-error 요청 본문
type FixRequest struct {
	ErrorID        string `json:"errorId"`
	OrganizationID string `json:"organizationId"`
}

// RemediationClient 구조체 정의
type RemediationClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// RemediationClient 객체 생성
func NewRemediationClient(cfg config.RemediationConfig) *RemediationClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultRemediationURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RemediationClient{
		baseURL: baseURL,
		timeout: timeout,
		// 제한 시간은 요청 context 로 관리
		httpClient: &http.Client{},
	}
}

// Timeout - 요청당 제한 시간
func (c *RemediationClient) Timeout() time.Duration {
	return c.timeout
}

// POST /fix-error 수정 요청 (재시도 없음)
// 제한 시간 초과는 ErrTimeout, 연결 실패는 ErrUnavailable, non-2xx 는 *APIError
func (c *RemediationClient) RequestFix(ctx context.Context, incidentID, organizationID string) error {
	payload, err := json.Marshal(FixRequest{ErrorID: incidentID, OrganizationID: organizationID})
	if err != nil {
		return fmt.Errorf("failed to marshal fix request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/fix-error", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: remediation backend did not respond: %v", apperrors.ErrTimeout, err)
		}
		return fmt.Errorf("%w: failed to send request to remediation backend: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// 응답 본문은 사용하지 않음
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
