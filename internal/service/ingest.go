// 에러 보고 수집 비즈니스 로직 정의
//
// 처리 흐름 (단건):
//  1. 요청 검증 (validator)
//  2. Sanitizer -> Normalizer -> Fingerprinter -> Severity Classifier
//  3. UpsertOpen: open Incident 가 있으면 occurrence_count 증가, 없으면 신규 생성 (원자적)
//  4. 신규 생성된 경우에만 테넌트 설정 조회 후 자동 수정 여부 판단
//  5. eligible 이면 Remediator.Trigger (carla_fixing 전이 후 비동기 호출)
//
// 배치는 fingerprint 를 먼저 모두 계산하고 한 번의 bulk 조회 후
// 항목별로 동시에 처리한다. 한 항목의 실패는 다른 항목에 영향을 주지 않는다.

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/interworky/error-tracker/internal/db"
	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/fingerprint"
	"github.com/interworky/error-tracker/internal/logging"
	"github.com/interworky/error-tracker/internal/metrics"
	"github.com/interworky/error-tracker/internal/model"
	"github.com/interworky/error-tracker/internal/remediation"
	"github.com/interworky/error-tracker/internal/sanitize"
	"github.com/interworky/error-tracker/internal/severity"
)

// Remediator - 자동 수정 트리거
type Remediator interface {
	Trigger(ctx context.Context, incidentID, organizationID string) (remediation.Decision, error)
}

// IngestService 구조체 정의
type IngestService struct {
	store         db.IncidentStore
	configs       db.RemediationConfigStore
	remediator    Remediator
	fingerprinter *fingerprint.Fingerprinter
	validate      *validator.Validate
	maxBatchSize  int
	now           func() time.Time
	logger        zerolog.Logger
}

// IngestService 객체 생성
func NewIngestService(store db.IncidentStore, configs db.RemediationConfigStore, remediator Remediator, maxBatchSize int) *IngestService {
	if maxBatchSize <= 0 || maxBatchSize > model.MaxBatchSize {
		maxBatchSize = model.MaxBatchSize
	}
	return &IngestService{
		store:         store,
		configs:       configs,
		remediator:    remediator,
		fingerprinter: fingerprint.New(),
		validate:      newValidator(),
		maxBatchSize:  maxBatchSize,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logging.Component("ingest"),
	}
}

// 에러 필드명은 JSON 이름으로 보고
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// prepared - 검증/정제/fingerprint 계산까지 끝난 보고
type prepared struct {
	report   model.ErrorReport // sanitize 된 보고
	incident *model.Incident
}

// Ingest - 단건 수집
func (s *IngestService) Ingest(ctx context.Context, report model.ErrorReport) (*model.IngestResult, error) {
	p, err := s.prepare(report, -1, "")
	if err != nil {
		metrics.RecordIngest(string(report.Category), "failed")
		return nil, err
	}

	inc, created, err := s.store.UpsertOpen(ctx, p.incident)
	if err != nil {
		metrics.RecordIngest(string(report.Category), "failed")
		s.logger.Error().Err(err).
			Str("organization_id", p.report.OrganizationID).
			Str("fingerprint", p.incident.Fingerprint).
			Msg("failed to upsert incident")
		return nil, apperrors.NewPersistenceError("upsert_incident", -1, err)
	}

	return s.finish(ctx, p, inc, created), nil
}

// IngestBatch - 배치 수집 (1..maxBatchSize 건)
// 배치 크기 위반만 전체 에러로 반환하고 항목별 실패는 결과의 Failed 에 모음
func (s *IngestService) IngestBatch(ctx context.Context, req model.BatchRequest) (*model.BatchResult, error) {
	if len(req.Errors) == 0 {
		return nil, apperrors.NewValidationError(-1, map[string]string{"errors": "must contain at least one report"})
	}
	if len(req.Errors) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d reports (max %d)", apperrors.ErrBatchTooLarge, len(req.Errors), s.maxBatchSize)
	}
	metrics.RecordBatch(len(req.Errors))

	batchID := req.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	n := len(req.Errors)
	reports := make([]model.ErrorReport, n)
	items := make([]*prepared, n)
	results := make([]*model.IngestResult, n)
	failures := make([]error, n)

	// 1. 건별 디코딩 + fingerprint 선계산
	keys := make([]model.FingerprintKey, 0, n)
	for i, raw := range req.Errors {
		if err := json.Unmarshal(raw, &reports[i]); err != nil {
			failures[i] = apperrors.NewValidationError(i, decodeFields(err))
			continue
		}
		p, err := s.prepare(reports[i], i, batchID)
		if err != nil {
			failures[i] = err
			continue
		}
		items[i] = p
		// fallback fingerprint 는 기존 Incident 와 일치할 수 없음
		if !fingerprint.IsFallback(p.incident.Fingerprint) {
			keys = append(keys, p.incident.Key())
		}
	}

	// 2. bulk 조회 (실패해도 UpsertOpen 이 중복을 막으므로 계속 진행)
	existing, err := s.store.FindOpenByFingerprints(ctx, keys)
	if err != nil {
		s.logger.Warn().Err(err).Str("batch_id", batchID).Msg("bulk incident lookup failed, falling back to upsert")
		existing = nil
	}

	// 3. 항목별 동시 처리 (settle-all: 각 goroutine 은 자기 슬롯에만 기록하고 nil 반환)
	var g errgroup.Group
	for i, p := range items {
		if p == nil {
			continue
		}
		hit := existing[p.incident.Key()]
		g.Go(func() error {
			results[i], failures[i] = s.apply(ctx, p, hit, i)
			return nil
		})
	}
	_ = g.Wait()

	// 4. 입력 순서대로 결과 정리
	out := &model.BatchResult{
		BatchID:   batchID,
		Processed: []model.BatchItemResult{},
		Failed:    []model.BatchItemFailure{},
	}
	for i := 0; i < n; i++ {
		if failures[i] != nil {
			metrics.RecordIngest(string(reports[i].Category), "failed")
			out.Failed = append(out.Failed, model.BatchItemFailure{
				Index: i,
				Error: failures[i].Error(),
				Type:  string(apperrors.TypeOf(failures[i])),
				Field: apperrors.FieldsOf(failures[i]),
			})
			continue
		}
		out.Processed = append(out.Processed, model.BatchItemResult{Index: i, IngestResult: *results[i]})
	}
	out.FailedCount = len(out.Failed)

	s.logger.Info().
		Str("batch_id", batchID).
		Int("received", n).
		Int("processed", len(out.Processed)).
		Int("failed", out.FailedCount).
		Msg("batch ingested")
	return out, nil
}

// apply - bulk 조회 hit 면 증가 경로, miss 면 생성 경로
func (s *IngestService) apply(ctx context.Context, p *prepared, hit *model.Incident, index int) (*model.IngestResult, error) {
	if hit != nil {
		inc, err := s.store.IncrementOccurrence(ctx, hit.IncidentID, p.incident.LastSeenAt)
		if err == nil {
			return s.finish(ctx, p, inc, false), nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error().Err(err).Str("incident_id", hit.IncidentID).Int("index", index).Msg("failed to increment occurrence")
			return nil, apperrors.NewPersistenceError("increment_occurrence", index, err)
		}
		// 조회 이후 resolved/삭제된 경우 생성 경로로
	}

	inc, created, err := s.store.UpsertOpen(ctx, p.incident)
	if err != nil {
		s.logger.Error().Err(err).Str("fingerprint", p.incident.Fingerprint).Int("index", index).Msg("failed to upsert incident")
		return nil, apperrors.NewPersistenceError("upsert_incident", index, err)
	}
	return s.finish(ctx, p, inc, created), nil
}

// finish - 결과 구성 + 신규 Incident 자동 수정 판단
func (s *IngestService) finish(ctx context.Context, p *prepared, inc *model.Incident, created bool) *model.IngestResult {
	outcome := "duplicate"
	if created {
		outcome = "created"
	}
	metrics.RecordIngest(string(inc.Category), outcome)

	result := &model.IngestResult{
		IncidentID:      inc.IncidentID,
		Status:          inc.Status,
		Severity:        inc.Severity,
		IsDuplicate:     !created,
		OccurrenceCount: inc.OccurrenceCount,
	}
	if created {
		result.RemediationTriggered = s.maybeRemediate(ctx, *result, p.report)
	}
	return result
}

// maybeRemediate - 설정 조회 실패/미설정은 자동 수정을 건너뜀 (fail closed)
// 수집 결과에는 영향을 주지 않음
func (s *IngestService) maybeRemediate(ctx context.Context, result model.IngestResult, report model.ErrorReport) bool {
	var cfg *model.RemediationConfig
	if report.OrganizationID != "" && s.configs != nil {
		c, err := s.configs.GetRemediationConfig(ctx, report.OrganizationID)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			s.logger.Warn().Err(err).Str("organization_id", report.OrganizationID).Msg("failed to load remediation config")
		}
	}

	decision := remediation.ShouldAttempt(result, report, cfg)
	if !decision.Eligible {
		metrics.RecordRemediationDecision(string(decision.Reason))
		s.logger.Info().
			Str("incident_id", result.IncidentID).
			Str("organization_id", report.OrganizationID).
			Str("reason", string(decision.Reason)).
			Msg("remediation not attempted")
		return false
	}
	if s.remediator == nil {
		return false
	}

	d, err := s.remediator.Trigger(ctx, result.IncidentID, report.OrganizationID)
	if err != nil {
		s.logger.Error().Err(err).Str("incident_id", result.IncidentID).Msg("failed to trigger remediation")
		return false
	}
	metrics.RecordRemediationDecision(string(d.Reason))
	return d.Eligible
}

// prepare - 검증 후 정제된 보고와 저장할 Incident 구성
func (s *IngestService) prepare(report model.ErrorReport, index int, batchID string) (*prepared, error) {
	if err := s.validate.Struct(report); err != nil {
		return nil, apperrors.NewValidationError(index, validationFields(err))
	}

	clean := sanitize.Report(report)
	normalized := fingerprint.Normalize(clean.Message, clean.Category)
	fp := s.fingerprinter.Compute(fingerprint.Input{
		NormalizedMessage: normalized,
		Category:          clean.Category,
		SourceFile:        clean.SourceFile,
		SourceLine:        clean.Line(),
		OrganizationID:    clean.OrganizationID,
	})

	if batchID == "" {
		batchID = clean.BatchID
	}
	now := s.now()

	return &prepared{
		report: clean,
		incident: &model.Incident{
			IncidentID:     uuid.NewString(),
			OrganizationID: clean.OrganizationID,
			AssistantID:    clean.AssistantID,
			Fingerprint:    fp,
			Category:       clean.Category,
			Severity:       severity.Classify(clean.Message, clean.Category, report.Severity),
			Status:         model.StatusNew,
			Message:        clean.Message,
			StackTrace:     clean.StackTrace,
			SourceFile:     clean.SourceFile,
			LineNumber:     clean.LineNumber,
			ColumnNumber:   clean.ColumnNumber,
			URL:            clean.URL,
			UserAgent:      clean.UserAgent,
			SessionID:      clean.SessionID,
			Origin:         clean.OriginOrDefault(),
			BatchID:        batchID,
			Metadata:       clean.Metadata,
			FirstSeenAt:    now,
			LastSeenAt:     now,
		},
	}, nil
}

// decodeFields - JSON 타입 불일치를 필드 단위 검증 메시지로 변환
func decodeFields(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return map[string]string{"report": "failed type=object"}
		}
		return map[string]string{typeErr.Field: "failed type=" + typeErr.Type.String()}
	}
	return map[string]string{"report": "failed decode"}
}

func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"report": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if fe.Param() != "" {
			fields[name] = fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		} else {
			fields[name] = "failed " + fe.Tag()
		}
	}
	return fields
}
