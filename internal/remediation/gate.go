// 자동 수정 시도 여부 판단 (순수 함수, 부수효과 없음)
//
// 조건 (모두 만족해야 eligible, 먼저 실패한 조건이 Reason):
//  1. 신규 Incident (dedup hit 아님)
//  2. 테넌트 ID 존재
//  3. 최소 근거: stack trace 또는 source file 존재, 또는 performance_issue 가 아닌 category
//  4. origin 이 client_website (모니터링 플러그인 자체 에러는 제외)
//  5. 테넌트 설정 존재 + auto_fix_enabled + GitHub installation 연결

package remediation

import (
	"strings"

	"github.com/interworky/error-tracker/internal/model"
)

// Reason - 판단 결과 코드 (로그/메트릭 라벨로 사용)
type Reason string

const (
	ReasonEligible             Reason = "eligible"
	ReasonDuplicate            Reason = "duplicate"
	ReasonMissingTenant        Reason = "missing_tenant"
	ReasonInsufficientEvidence Reason = "insufficient_evidence"
	ReasonMonitoringOrigin     Reason = "monitoring_origin"
	ReasonConfigUnavailable    Reason = "config_unavailable"
	ReasonAutoFixDisabled      Reason = "auto_fix_disabled"
	ReasonMissingInstallation  Reason = "missing_installation"
	ReasonAlreadyHandled       Reason = "already_handled"
	ReasonQueueUnavailable     Reason = "queue_unavailable"
)

// Decision - Eligible 과 판단 근거
type Decision struct {
	Eligible bool
	Reason   Reason
}

func reject(r Reason) Decision {
	return Decision{Eligible: false, Reason: r}
}

// ShouldAttempt - 자동 수정 시도 여부 판단
// cfg 가 nil 이면 설정 조회 불가로 간주 (fail closed)
func ShouldAttempt(result model.IngestResult, report model.ErrorReport, cfg *model.RemediationConfig) Decision {
	if result.IsDuplicate {
		return reject(ReasonDuplicate)
	}
	if strings.TrimSpace(report.OrganizationID) == "" {
		return reject(ReasonMissingTenant)
	}
	if !hasMinimumEvidence(report) {
		return reject(ReasonInsufficientEvidence)
	}
	if report.OriginOrDefault() != model.OriginMonitoredSurface {
		return reject(ReasonMonitoringOrigin)
	}
	if cfg == nil {
		return reject(ReasonConfigUnavailable)
	}
	if !cfg.AutoFixEnabled {
		return reject(ReasonAutoFixDisabled)
	}
	if !cfg.HasWiring() {
		return reject(ReasonMissingInstallation)
	}
	return Decision{Eligible: true, Reason: ReasonEligible}
}

func hasMinimumEvidence(report model.ErrorReport) bool {
	return report.StackTrace != "" ||
		report.SourceFile != "" ||
		report.Category != model.CategoryPerformanceIssue
}
