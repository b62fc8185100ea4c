// 클라이언트(테넌트 웹사이트)가 보고하는 런타임 에러 페이로드 정의
// handler, service, remediation 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의
//
// 검증 규칙은 validate 태그로 선언하고 service 레이어에서 건별로 검사
// (배치 요청에서 한 건의 검증 실패가 전체 요청을 막지 않도록 gin binding 태그는 사용하지 않음)

package model

import "encoding/json"

// Category - 에러 분류
type Category string

const (
	CategoryConsoleError       Category = "console_error"
	CategoryConsoleWarn        Category = "console_warn"
	CategoryConsoleLog         Category = "console_log"
	CategoryUnhandledException Category = "unhandled_exception"
	CategoryPromiseRejection   Category = "promise_rejection"
	CategoryResourceError      Category = "resource_error"
	CategoryPerformanceIssue   Category = "performance_issue"
	CategoryNetworkError       Category = "network_error"
)

// Severity - 심각도 (critical > high > medium > low)
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Origin - 에러 발생 위치
//   - client_website: 고객 웹사이트 (자동 수정 대상)
//   - interworky_plugin: 모니터링 플러그인 자체 (자동 수정 대상 아님)
type Origin string

const (
	OriginMonitoredSurface         Origin = "client_website"
	OriginMonitoringInfrastructure Origin = "interworky_plugin"
)

// 필드 길이 제한
const (
	MaxMessageLength    = 2000
	MaxStackTraceLength = 10000
	MaxSourceFileLength = 500
	MaxURLLength        = 2048
	MaxUserAgentLength  = 1000
	MaxBatchSize        = 50
)

// ErrorSource - 에러 출처 정보
type ErrorSource struct {
	Origin Origin `json:"origin,omitempty" validate:"omitempty,oneof=client_website interworky_plugin"`
}

// ErrorReport - 단건 에러 보고
// message, stack_trace, source_file 은 길이 초과 시 거부하지 않고 sanitize 단계에서 잘라냄
type ErrorReport struct {
	Category       Category          `json:"category" validate:"required,oneof=console_error console_warn console_log unhandled_exception promise_rejection resource_error performance_issue network_error"`
	Severity       Severity          `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Message        string            `json:"message" validate:"required"`
	StackTrace     string            `json:"stack_trace,omitempty"`
	SourceFile     string            `json:"source_file,omitempty"`
	LineNumber     *int              `json:"line_number,omitempty" validate:"omitempty,gte=0"`
	ColumnNumber   *int              `json:"column_number,omitempty" validate:"omitempty,gte=0"`
	URL            string            `json:"url" validate:"required"`
	UserAgent      string            `json:"user_agent" validate:"required"`
	OrganizationID string            `json:"organization_id" validate:"required"`
	AssistantID    string            `json:"assistant_id" validate:"required"`
	SessionID      string            `json:"session_id" validate:"required"`
	ErrorSource    ErrorSource       `json:"error_source"`
	BatchID        string            `json:"batch_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// OriginOrDefault - origin 미지정 시 client_website 로 간주
func (r ErrorReport) OriginOrDefault() Origin {
	if r.ErrorSource.Origin == "" {
		return OriginMonitoredSurface
	}
	return r.ErrorSource.Origin
}

// Line - line_number 값 (없으면 0)
func (r ErrorReport) Line() int {
	if r.LineNumber == nil {
		return 0
	}
	return *r.LineNumber
}

// BatchRequest - 배치 에러 보고 (최대 50건)
// 항목은 service 에서 건별로 디코딩 (타입이 잘못된 항목도 해당 항목만 실패)
type BatchRequest struct {
	Errors  []json.RawMessage `json:"errors" swaggertype:"array,object"`
	BatchID string            `json:"batch_id,omitempty"`
}
