package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/pkg/dbmetrics"
	"github.com/mentorhub/MH-BookingEngine/pkg/psqlbuilder"
)

var overrideColumns = []string{
	"id",
	"mentor_id",
	"service_id",
	"min_lead_hours",
	"max_advance_days",
	"max_reschedules",
	"cancellation_window_hours",
	"late_cancel_as_no_show",
	"duplicate_cooldown_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий override'ов политики бронирования
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория политики
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или обновляет override для (mentor_id, service_id)
func (r *Repository) Upsert(ctx context.Context, override *domain.MentorPolicyOverride) (*domain.MentorPolicyOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("mentor_policy_config").
		Columns(
			"mentor_id",
			"service_id",
			"min_lead_hours",
			"max_advance_days",
			"max_reschedules",
			"cancellation_window_hours",
			"late_cancel_as_no_show",
			"duplicate_cooldown_minutes",
		).
		Values(
			override.MentorID,
			override.ServiceID,
			override.MinLeadHours,
			override.MaxAdvanceDays,
			override.MaxReschedules,
			override.CancellationWindowHours,
			override.LateCancelAsNoShow,
			override.DuplicateCooldownMinutes,
		).
		Suffix(`ON CONFLICT (mentor_id, COALESCE(service_id, 0)) DO UPDATE SET
			min_lead_hours = EXCLUDED.min_lead_hours,
			max_advance_days = EXCLUDED.max_advance_days,
			max_reschedules = EXCLUDED.max_reschedules,
			cancellation_window_hours = EXCLUDED.cancellation_window_hours,
			late_cancel_as_no_show = EXCLUDED.late_cancel_as_no_show,
			duplicate_cooldown_minutes = EXCLUDED.duplicate_cooldown_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// GetByMentorAndService получает override для точной пары (mentor_id, service_id)
// serviceID = nil означает override для всех услуг ментора
func (r *Repository) GetByMentorAndService(ctx context.Context, mentorID int64, serviceID *int64) (*domain.MentorPolicyOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(overrideColumns...).
		From("mentor_policy_config").
		Where(squirrel.Eq{"mentor_id": mentorID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMentorAndService - build select query: %v", ErrBuildQuery, err)
	}

	override, err := r.scanOverrideRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMentorAndService - scan override: %w", ErrScanRow, err)
	}

	return override, nil
}

// GetWithHierarchy получает override с учетом иерархии приоритетов
// Приоритет применения:
// 1. Override для конкретной услуги ментора (mentorID, serviceID)
// 2. Override для всех услуг ментора (mentorID, NULL)
//
// Если override не найден ни на одном уровне, возвращает ErrOverrideNotFound;
// вызывающий в этом случае использует значения каталога и дефолты конфигурации
func (r *Repository) GetWithHierarchy(ctx context.Context, mentorID int64, serviceID *int64) (*domain.MentorPolicyOverride, error) {
	if serviceID != nil {
		override, err := r.GetByMentorAndService(ctx, mentorID, serviceID)
		if err == nil {
			return override, nil
		}
		if err != ErrOverrideNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (mentor+service): %w", ErrExecQuery, err)
		}
	}

	override, err := r.GetByMentorAndService(ctx, mentorID, nil)
	if err == nil {
		return override, nil
	}
	if err != ErrOverrideNotFound {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (mentor only): %w", ErrExecQuery, err)
	}

	return nil, ErrOverrideNotFound
}

// GetAllByMentor получает все override'ы ментора (общий первым)
func (r *Repository) GetAllByMentor(ctx context.Context, mentorID int64) ([]*domain.MentorPolicyOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("mentor_policy_config").
		Where(squirrel.Eq{"mentor_id": mentorID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByMentor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByMentor - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.MentorPolicyOverride, 0)

	for rows.Next() {
		override, err := r.scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByMentor - scan row: %w", ErrScanRow, err)
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByMentor - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}

// Delete удаляет override для пары (mentor_id, service_id)
func (r *Repository) Delete(ctx context.Context, mentorID int64, serviceID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("mentor_policy_config").
		Where(squirrel.Eq{"mentor_id": mentorID})

	if serviceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanOverrideRow(row *sql.Row) (*domain.MentorPolicyOverride, error) {
	return r.scan(row)
}

func (r *Repository) scanOverride(rows *sql.Rows) (*domain.MentorPolicyOverride, error) {
	return r.scan(rows)
}

func (r *Repository) scan(s rowScanner) (*domain.MentorPolicyOverride, error) {
	var override domain.MentorPolicyOverride
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&override.ID,
		&override.MentorID,
		&override.ServiceID,
		&override.MinLeadHours,
		&override.MaxAdvanceDays,
		&override.MaxReschedules,
		&override.CancellationWindowHours,
		&override.LateCancelAsNoShow,
		&override.DuplicateCooldownMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}
