package pencatatan

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	appctx "github.com/rzkdmln/sicakap/internal/core/context"
	"github.com/rzkdmln/sicakap/internal/core/tx"
	"github.com/rzkdmln/sicakap/internal/domain/numbering"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

// NumberConfirmer is the slice of the allocator this service needs: the
// hand-off signal that a reserved number has been durably written.
type NumberConfirmer interface {
	Confirm(ctx context.Context, sessionID string, number int) bool
}

// ChangeLogger records who changed which record. The audit row is written
// in the same transaction as the record change.
type ChangeLogger interface {
	LogChange(ctx context.Context, entityType, entityID, action string, changes map[string]any) error
}

// Service provides business logic for pencatatan records.
type Service struct {
	repo      Repository
	confirmer NumberConfirmer
	txManager tx.Manager
	auditor   ChangeLogger
}

// NewService creates a new record service. confirmer, txManager and auditor
// may be nil in contexts without an allocator or database (imports, tests).
func NewService(repo Repository, confirmer NumberConfirmer, txManager tx.Manager, auditor ChangeLogger) *Service {
	return &Service{repo: repo, confirmer: confirmer, txManager: txManager, auditor: auditor}
}

// runInTx executes fn in a transaction when a manager is wired, directly
// otherwise.
func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.RunInTransaction(ctx, fn)
}

func (s *Service) logChange(ctx context.Context, id int64, action string, changes map[string]any) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.LogChange(ctx, "pencatatan", strconv.FormatInt(id, 10), action, changes)
}

// Create validates and persists a record, then confirms the caller's
// reservation for the record's number. The confirm happens after the insert
// in the same request; the allocator treats it as a hand-off, not a
// transactional commit.
func (s *Service) Create(ctx context.Context, rec *Pencatatan) (int64, error) {
	if err := validate(rec); err != nil {
		return 0, err
	}
	if rec.Status == "" {
		rec.Status = StatusDiproses
	}

	var id int64
	err := s.runInTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.repo.Create(ctx, rec)
		if err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		return s.logChange(ctx, id, "create", map[string]any{
			"reg_number":   rec.RegNumber,
			"reg_date":     rec.RegDate,
			"service_code": rec.ServiceCode,
			"status":       rec.Status,
		})
	})
	if err != nil {
		return 0, err
	}

	// Confirm after commit; the allocator hand-off must not hold the
	// transaction open.
	if s.confirmer != nil {
		if sessionID := appctx.GetSessionID(ctx); sessionID != "" {
			s.confirmer.Confirm(ctx, sessionID, rec.RegNumber)
		}
	}

	logger.Info(ctx, "record created",
		"id", id, "reg_number", rec.RegNumber, "reg_date", rec.RegDate)
	return id, nil
}

// GetByID fetches one record.
func (s *Service) GetByID(ctx context.Context, id int64) (*Pencatatan, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates and saves an existing record.
func (s *Service) Update(ctx context.Context, rec *Pencatatan) error {
	if rec.ID == 0 {
		return apperror.NewValidation("record id is required")
	}
	if err := validate(rec); err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = StatusDiproses
	}
	return s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, rec); err != nil {
			return err
		}
		return s.logChange(ctx, rec.ID, "update", map[string]any{
			"reg_number": rec.RegNumber,
			"reg_date":   rec.RegDate,
			"status":     rec.Status,
		})
	})
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.logChange(ctx, id, "delete", nil)
	})
}

// List returns records matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Pencatatan, error) {
	return s.repo.List(ctx, f.Normalized())
}

// Statistik returns the dashboard aggregates. today is a YYYY-MM-DD value,
// normally the allocator's active date.
func (s *Service) Statistik(ctx context.Context, today string) (*Stats, error) {
	return s.repo.Stats(ctx, today)
}

// DateStatistics returns per-date number usage for the most recent dates.
func (s *Service) DateStatistics(ctx context.Context) ([]DateStat, error) {
	return s.repo.DateStats(ctx, 30)
}

// validate collects field errors the way the front office expects: all
// missing fields reported at once.
func validate(rec *Pencatatan) error {
	var missing []string
	if rec.RegNumber == 0 {
		missing = append(missing, "reg_number")
	}
	if rec.RegDate == "" {
		missing = append(missing, "reg_date")
	}
	if rec.NIK == "" {
		missing = append(missing, "nik")
	}
	if rec.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return apperror.NewValidation("required fields missing: " + strings.Join(missing, ", ")).
			WithDetail("fields", missing)
	}

	if _, err := numbering.ParseDate(rec.RegDate); err != nil {
		return err
	}
	return nil
}
