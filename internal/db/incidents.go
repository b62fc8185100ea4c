package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/model"
)

// EnsureIncidentSchema - incidents 테이블 생성
// (organization_id, fingerprint) partial unique index 로 open Incident 1개 제약을 DB 가 보장
func (db *Postgres) EnsureIncidentSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS incidents (
			incident_id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			assistant_id TEXT NOT NULL DEFAULT '',
			fingerprint TEXT NOT NULL,
			category TEXT NOT NULL,
			severity TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'new',
			message TEXT NOT NULL DEFAULT '',
			stack_trace TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			line_number INTEGER,
			column_number INTEGER,
			url TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			session_id TEXT NOT NULL DEFAULT '',
			origin TEXT NOT NULL DEFAULT 'client_website',
			batch_id TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}',
			occurrence_count BIGINT NOT NULL DEFAULT 1,
			first_seen_at TIMESTAMPTZ NOT NULL,
			last_seen_at TIMESTAMPTZ NOT NULL,
			remediation JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE UNIQUE INDEX IF NOT EXISTS incidents_open_fingerprint_uidx ON incidents(organization_id, fingerprint) WHERE status <> 'resolved'`,
		`CREATE INDEX IF NOT EXISTS incidents_fingerprint_idx ON incidents(organization_id, fingerprint)`,
		`CREATE INDEX IF NOT EXISTS incidents_status_idx ON incidents(status)`,
		`CREATE INDEX IF NOT EXISTS incidents_last_seen_at_idx ON incidents(organization_id, last_seen_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const incidentColumns = `
	incident_id, organization_id, assistant_id, fingerprint, category, severity, status,
	message, stack_trace, source_file, line_number, column_number, url, user_agent,
	session_id, origin, batch_id, metadata, occurrence_count, first_seen_at, last_seen_at,
	remediation, created_at, updated_at`

// incidentRow - JSONB 컬럼은 []byte 로 받아서 디코딩
type incidentRow struct {
	inc         model.Incident
	metadata    []byte
	remediation []byte
}

func (r *incidentRow) targets() []any {
	i := &r.inc
	return []any{
		&i.IncidentID, &i.OrganizationID, &i.AssistantID, &i.Fingerprint, &i.Category, &i.Severity, &i.Status,
		&i.Message, &i.StackTrace, &i.SourceFile, &i.LineNumber, &i.ColumnNumber, &i.URL, &i.UserAgent,
		&i.SessionID, &i.Origin, &i.BatchID, &r.metadata, &i.OccurrenceCount, &i.FirstSeenAt, &i.LastSeenAt,
		&r.remediation, &i.CreatedAt, &i.UpdatedAt,
	}
}

func (r *incidentRow) decode() (*model.Incident, error) {
	if len(r.metadata) > 0 {
		if err := json.Unmarshal(r.metadata, &r.inc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}
	if len(r.remediation) > 0 {
		var outcome model.RemediationOutcome
		if err := json.Unmarshal(r.remediation, &outcome); err != nil {
			return nil, fmt.Errorf("failed to decode remediation: %w", err)
		}
		r.inc.Remediation = &outcome
	}
	return &r.inc, nil
}

func scanIncident(row pgx.Row) (*model.Incident, error) {
	var r incidentRow
	if err := row.Scan(r.targets()...); err != nil {
		if IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return r.decode()
}

// UpsertOpen - open Incident 가 없으면 생성, 있으면 occurrence_count 증가 + last_seen_at 갱신
// 단일 INSERT ... ON CONFLICT 로 처리하므로 동시 요청이 같은 fingerprint 로 들어와도 Incident 는 1개
func (db *Postgres) UpsertOpen(ctx context.Context, inc *model.Incident) (*model.Incident, bool, error) {
	metadata, err := json.Marshal(nonNilMetadata(inc.Metadata))
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `
		INSERT INTO incidents (
			incident_id, organization_id, assistant_id, fingerprint, category, severity, status,
			message, stack_trace, source_file, line_number, column_number, url, user_agent,
			session_id, origin, batch_id, metadata, occurrence_count, first_seen_at, last_seen_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1, $19, $19, NOW(), NOW())
		ON CONFLICT (organization_id, fingerprint) WHERE status <> 'resolved' DO UPDATE SET
			occurrence_count = incidents.occurrence_count + 1,
			last_seen_at = GREATEST(incidents.last_seen_at, EXCLUDED.last_seen_at),
			updated_at = NOW()
		RETURNING ` + incidentColumns + `, (xmax = 0) AS inserted
	`

	var r incidentRow
	var inserted bool
	err = db.Pool.QueryRow(ctx, query,
		inc.IncidentID,
		inc.OrganizationID,
		inc.AssistantID,
		inc.Fingerprint,
		inc.Category,
		inc.Severity,
		inc.Status,
		inc.Message,
		inc.StackTrace,
		inc.SourceFile,
		inc.LineNumber,
		inc.ColumnNumber,
		inc.URL,
		inc.UserAgent,
		inc.SessionID,
		inc.Origin,
		inc.BatchID,
		metadata,
		inc.FirstSeenAt,
	).Scan(append(r.targets(), &inserted)...)
	if err != nil {
		return nil, false, err
	}

	out, err := r.decode()
	if err != nil {
		return nil, false, err
	}
	return out, inserted, nil
}

// FindOpenByFingerprints - 배치 전체 fingerprint 를 한 번의 쿼리로 조회
func (db *Postgres) FindOpenByFingerprints(ctx context.Context, keys []model.FingerprintKey) (map[model.FingerprintKey]*model.Incident, error) {
	found := make(map[model.FingerprintKey]*model.Incident, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	wanted := make(map[model.FingerprintKey]struct{}, len(keys))
	orgs := make([]string, 0, len(keys))
	fingerprints := make([]string, 0, len(keys))
	seenOrg := make(map[string]struct{})
	for _, k := range keys {
		wanted[k] = struct{}{}
		fingerprints = append(fingerprints, k.Fingerprint)
		if _, ok := seenOrg[k.OrganizationID]; !ok {
			seenOrg[k.OrganizationID] = struct{}{}
			orgs = append(orgs, k.OrganizationID)
		}
	}

	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE organization_id = ANY($1) AND fingerprint = ANY($2) AND status <> 'resolved'
	`

	rows, err := db.Pool.Query(ctx, query, orgs, fingerprints)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r incidentRow
		if err := rows.Scan(r.targets()...); err != nil {
			return nil, err
		}
		inc, err := r.decode()
		if err != nil {
			return nil, err
		}
		// ANY x ANY 는 교차 조합까지 포함하므로 요청한 키만 남김
		if _, ok := wanted[inc.Key()]; ok {
			found[inc.Key()] = inc
		}
	}
	return found, rows.Err()
}

// IncrementOccurrence - open Incident 의 occurrence_count 를 원자적으로 증가
// 그 사이 resolved 되었으면 ErrNotFound
func (db *Postgres) IncrementOccurrence(ctx context.Context, incidentID string, seenAt time.Time) (*model.Incident, error) {
	query := `
		UPDATE incidents
		SET occurrence_count = occurrence_count + 1,
			last_seen_at = GREATEST(last_seen_at, $2),
			updated_at = NOW()
		WHERE incident_id = $1 AND status <> 'resolved'
		RETURNING ` + incidentColumns

	return scanIncident(db.Pool.QueryRow(ctx, query, incidentID, seenAt))
}

// TransitionStatus - 현재 상태가 from 중 하나일 때만 to 로 변경 (optimistic concurrency)
func (db *Postgres) TransitionStatus(ctx context.Context, incidentID string, from []model.Status, to model.Status) (bool, error) {
	query := `
		UPDATE incidents
		SET status = $2, updated_at = NOW()
		WHERE incident_id = $1 AND status = ANY($3)
	`

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	commandTag, err := db.Pool.Exec(ctx, query, incidentID, to, allowed)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

// RecordRemediation - 자동 수정 결과 저장
func (db *Postgres) RecordRemediation(ctx context.Context, incidentID string, outcome model.RemediationOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to encode remediation: %w", err)
	}

	// payload 에 attempted_at 이 있으면 그 값이 우선
	query := `
		UPDATE incidents
		SET remediation = jsonb_strip_nulls(jsonb_build_object('attempted_at', remediation->'attempted_at')) || $2::jsonb,
			updated_at = NOW()
		WHERE incident_id = $1
	`
	commandTag, err := db.Pool.Exec(ctx, query, incidentID, payload)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordAttempt - 다른 결과 필드는 건드리지 않고 attempted_at 만 갱신
func (db *Postgres) RecordAttempt(ctx context.Context, incidentID string, attemptedAt time.Time) error {
	payload, err := json.Marshal(attemptedAt)
	if err != nil {
		return fmt.Errorf("failed to encode attempted_at: %w", err)
	}

	query := `
		UPDATE incidents
		SET remediation = jsonb_set(COALESCE(remediation, '{}'::jsonb), '{attempted_at}', $2::jsonb),
			updated_at = NOW()
		WHERE incident_id = $1
	`
	commandTag, err := db.Pool.Exec(ctx, query, incidentID, payload)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetIncident - Incident 상세 조회
func (db *Postgres) GetIncident(ctx context.Context, incidentID string) (*model.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE incident_id = $1`
	return scanIncident(db.Pool.QueryRow(ctx, query, incidentID))
}

// ListIncidents - 테넌트의 Incident 목록 (최근 발생 순)
func (db *Postgres) ListIncidents(ctx context.Context, organizationID string, limit int) ([]model.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE organization_id = $1
		ORDER BY last_seen_at DESC
		LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Incident{}
	for rows.Next() {
		var r incidentRow
		if err := rows.Scan(r.targets()...); err != nil {
			return nil, err
		}
		inc, err := r.decode()
		if err != nil {
			return nil, err
		}
		list = append(list, *inc)
	}
	return list, rows.Err()
}

// DeleteByFingerprint - 테넌트 내 같은 fingerprint 를 가진 레코드를 모두 삭제 (운영자 조치)
func (db *Postgres) DeleteByFingerprint(ctx context.Context, organizationID, fingerprint string) (int64, error) {
	query := `DELETE FROM incidents WHERE organization_id = $1 AND fingerprint = $2`
	commandTag, err := db.Pool.Exec(ctx, query, organizationID, fingerprint)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

func nonNilMetadata(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
