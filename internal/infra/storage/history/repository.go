package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mentorhub/MH-BookingEngine/internal/domain"
	"github.com/mentorhub/MH-BookingEngine/pkg/dbmetrics"
	"github.com/mentorhub/MH-BookingEngine/pkg/psqlbuilder"
)

// Repository репозиторий append-only истории переходов бронирований
// Таблица booking_history только дописывается: методов обновления
// и удаления у репозитория нет намеренно
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория истории
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append дописывает запись аудита
// Вызывается сервисом бронирований внутри той же транзакции,
// что и сам переход статуса
func (r *Repository) Append(ctx context.Context, entry *domain.BookingHistoryEntry) (*domain.BookingHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_history").
		Columns(
			"booking_id",
			"action",
			"actor_id",
			"previous_status",
			"new_status",
			"reason",
		).
		Values(
			entry.BookingID,
			entry.Action,
			entry.ActorID,
			entry.PreviousStatus,
			entry.NewStatus,
			entry.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// ListByBooking получает историю бронирования в порядке записи
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"action",
		"actor_id",
		"previous_status",
		"new_status",
		"reason",
		"created_at",
	).
		From("booking_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.BookingHistoryEntry, 0)

	for rows.Next() {
		var entry domain.BookingHistoryEntry
		var createdAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.Action,
			&entry.ActorID,
			&entry.PreviousStatus,
			&entry.NewStatus,
			&entry.Reason,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %w", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}
