package db

import (
	"context"
	"time"

	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/model"
)

// EnsureRemediationConfigSchema - 테넌트별 자동 수정 설정 테이블 생성
func (db *Postgres) EnsureRemediationConfigSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS remediation_configs (
			organization_id TEXT PRIMARY KEY,
			auto_fix_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			github_installation_id TEXT NOT NULL DEFAULT '',
			repository TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.Pool.Exec(ctx, query)
	return err
}

// GetRemediationConfig - 설정이 없으면 ErrNotFound
func (db *Postgres) GetRemediationConfig(ctx context.Context, organizationID string) (*model.RemediationConfig, error) {
	query := `
		SELECT organization_id, auto_fix_enabled, github_installation_id, repository, updated_at
		FROM remediation_configs
		WHERE organization_id = $1
	`

	var cfg model.RemediationConfig
	err := db.Pool.QueryRow(ctx, query, organizationID).Scan(
		&cfg.OrganizationID,
		&cfg.AutoFixEnabled,
		&cfg.GitHubInstallationID,
		&cfg.Repository,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// PutRemediationConfig - 설정 upsert
func (db *Postgres) PutRemediationConfig(ctx context.Context, cfg model.RemediationConfig) (*model.RemediationConfig, error) {
	query := `
		INSERT INTO remediation_configs (organization_id, auto_fix_enabled, github_installation_id, repository, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id) DO UPDATE SET
			auto_fix_enabled = EXCLUDED.auto_fix_enabled,
			github_installation_id = EXCLUDED.github_installation_id,
			repository = EXCLUDED.repository,
			updated_at = EXCLUDED.updated_at
		RETURNING organization_id, auto_fix_enabled, github_installation_id, repository, updated_at
	`

	var out model.RemediationConfig
	err := db.Pool.QueryRow(ctx, query,
		cfg.OrganizationID,
		cfg.AutoFixEnabled,
		cfg.GitHubInstallationID,
		cfg.Repository,
		time.Now().UTC(),
	).Scan(
		&out.OrganizationID,
		&out.AutoFixEnabled,
		&out.GitHubInstallationID,
		&out.Repository,
		&out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
