package model

import "time"

// ============================================================================
// Incident 모델 (중복 제거 단위)
// ============================================================================

// Status - Incident 라이프사이클 상태
//
//	new -> carla_fixing -> pr_created | issue_created | resolved | fix_failed
//	ignored, duplicate 는 운영자 조치로만 진입하는 종료 상태
type Status string

const (
	StatusNew          Status = "new"
	StatusCarlaFixing  Status = "carla_fixing"
	StatusPRCreated    Status = "pr_created"
	StatusIssueCreated Status = "issue_created"
	StatusResolved     Status = "resolved"
	StatusFixFailed    Status = "fix_failed"
	StatusIgnored      Status = "ignored"
	StatusDuplicate    Status = "duplicate"
)

// IsHandled - 이미 수정 작업이 진행 중이거나 끝난 상태인지 여부
func (s Status) IsHandled() bool {
	switch s {
	case StatusCarlaFixing, StatusPRCreated, StatusIssueCreated, StatusResolved:
		return true
	}
	return false
}

// IsTerminal - 운영자 조치로만 진입하는 종료 상태인지 여부
func (s Status) IsTerminal() bool {
	return s == StatusIgnored || s == StatusDuplicate
}

// IsOpen - resolved 가 아니면 open
// 테넌트 내에서 fingerprint 당 open Incident 는 최대 1개
func (s Status) IsOpen() bool {
	return s != StatusResolved
}

// RemediationOutcome - 자동 수정 결과 기록
type RemediationOutcome struct {
	AttemptedAt   *time.Time `json:"attempted_at,omitempty"`
	CanFix        *bool      `json:"can_fix,omitempty"`
	Confidence    *float64   `json:"confidence,omitempty"`
	PRURL         string     `json:"pr_url,omitempty"`
	IssueURL      string     `json:"issue_url,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// Incident - 테넌트별로 중복 제거된 에러 레코드
type Incident struct {
	IncidentID      string              `json:"incident_id"`
	OrganizationID  string              `json:"organization_id"`
	AssistantID     string              `json:"assistant_id"`
	Fingerprint     string              `json:"fingerprint"`
	Category        Category            `json:"category"`
	Severity        Severity            `json:"severity"`
	Status          Status              `json:"status"`
	Message         string              `json:"message"`
	StackTrace      string              `json:"stack_trace,omitempty"`
	SourceFile      string              `json:"source_file,omitempty"`
	LineNumber      *int                `json:"line_number,omitempty"`
	ColumnNumber    *int                `json:"column_number,omitempty"`
	URL             string              `json:"url"`
	UserAgent       string              `json:"user_agent"`
	SessionID       string              `json:"session_id"`
	Origin          Origin              `json:"origin"`
	BatchID         string              `json:"batch_id,omitempty"`
	Metadata        map[string]string   `json:"metadata,omitempty"`
	OccurrenceCount int64               `json:"occurrence_count"`
	FirstSeenAt     time.Time           `json:"first_seen_at"`
	LastSeenAt      time.Time           `json:"last_seen_at"`
	Remediation     *RemediationOutcome `json:"remediation,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// FingerprintKey - (fingerprint, tenant) 복합 키
type FingerprintKey struct {
	Fingerprint    string
	OrganizationID string
}

// Key - Incident 의 복합 키
func (i *Incident) Key() FingerprintKey {
	return FingerprintKey{Fingerprint: i.Fingerprint, OrganizationID: i.OrganizationID}
}

// ============================================================================
// 자동 수정 설정 (외부 제공, 읽기 전용)
// ============================================================================

// RemediationConfig - 테넌트별 자동 수정 설정
// GitHubInstallationID 가 비어 있으면 비활성과 동일하게 취급
type RemediationConfig struct {
	OrganizationID       string    `json:"organization_id"`
	AutoFixEnabled       bool      `json:"auto_fix_enabled"`
	GitHubInstallationID string    `json:"github_installation_id"`
	Repository           string    `json:"repository,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// HasWiring - 소스 관리 연동이 되어 있는지 여부
func (c *RemediationConfig) HasWiring() bool {
	return c != nil && c.GitHubInstallationID != ""
}

// PutRemediationConfigRequest - 자동 수정 설정 저장 요청 구조체
type PutRemediationConfigRequest struct {
	AutoFixEnabled       bool   `json:"auto_fix_enabled"`
	GitHubInstallationID string `json:"github_installation_id"`
	Repository           string `json:"repository"`
}

// CompleteRemediationRequest - 수정 백엔드의 결과 보고 요청 구조체
type CompleteRemediationRequest struct {
	Status        Status   `json:"status" binding:"required,oneof=pr_created issue_created fix_failed"`
	CanFix        *bool    `json:"can_fix"`
	Confidence    *float64 `json:"confidence"`
	PRURL         string   `json:"pr_url"`
	IssueURL      string   `json:"issue_url"`
	FailureReason string   `json:"failure_reason"`
}
