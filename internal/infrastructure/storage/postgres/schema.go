package postgres

import (
	"context"
	"fmt"
)

// Boot-time schema. CREATE TABLE IF NOT EXISTS keeps restarts idempotent;
// anything beyond additive changes needs a manual migration.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS pencatatan (
		id            BIGSERIAL    PRIMARY KEY,
		reg_number    INTEGER      NOT NULL,
		reg_date      VARCHAR(10)  NOT NULL,
		service_code  VARCHAR(20)  NOT NULL DEFAULT '',
		nik           VARCHAR(20)  NOT NULL,
		name          VARCHAR(255) NOT NULL,
		phone_number  VARCHAR(30)  NOT NULL DEFAULT '',
		email         VARCHAR(255) NOT NULL DEFAULT '',
		no_skpwni     VARCHAR(50)  NOT NULL DEFAULT '',
		no_skdwni     VARCHAR(50)  NOT NULL DEFAULT '',
		no_kk         VARCHAR(50)  NOT NULL DEFAULT '',
		no_skbwni     VARCHAR(50)  NOT NULL DEFAULT '',
		status        VARCHAR(20)  NOT NULL DEFAULT 'DIPROSES',
		archive_path  TEXT         NOT NULL DEFAULT '',
		notes         TEXT         NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),

		UNIQUE (reg_date, reg_number)
	);`,

	`CREATE INDEX IF NOT EXISTS pencatatan_reg_date_idx
	ON pencatatan (reg_date);`,

	`CREATE INDEX IF NOT EXISTS pencatatan_status_idx
	ON pencatatan (status);`,

	`CREATE TABLE IF NOT EXISTS redaksi (
		id          BIGSERIAL    PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		content     TEXT         NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
	);`,

	`CREATE TABLE IF NOT EXISTS users (
		id                     BIGSERIAL    PRIMARY KEY,
		username               VARCHAR(100) NOT NULL UNIQUE,
		password_hash          VARCHAR(255) NOT NULL,
		full_name              VARCHAR(255) NOT NULL DEFAULT '',
		role                   VARCHAR(20)  NOT NULL DEFAULT 'operator',
		is_active              BOOLEAN      NOT NULL DEFAULT true,
		last_login_at          TIMESTAMPTZ,
		failed_login_attempts  INTEGER      NOT NULL DEFAULT 0,
		locked_until           TIMESTAMPTZ,
		created_at             TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at             TIMESTAMPTZ  NOT NULL DEFAULT now()
	);`,

	`CREATE TABLE IF NOT EXISTS sys_audit (
		id                  BIGSERIAL   PRIMARY KEY,
		entity_type         VARCHAR(50) NOT NULL,
		entity_id           VARCHAR(50) NOT NULL,
		action              VARCHAR(20) NOT NULL,
		user_id             VARCHAR(50) NOT NULL DEFAULT '',
		username            VARCHAR(100) NOT NULL DEFAULT '',
		changes             JSONB,
		changes_compressed  BYTEA,
		compression_algo    VARCHAR(10) NOT NULL DEFAULT 'none',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,

	`CREATE INDEX IF NOT EXISTS sys_audit_entity_idx
	ON sys_audit (entity_type, entity_id);`,
}

// Migrate applies the schema. Safe to run on every boot.
func Migrate(ctx context.Context, pool *Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
