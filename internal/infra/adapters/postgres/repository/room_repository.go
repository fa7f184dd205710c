package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/markcollab/internal/domain/models"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const uniqueViolation = "23505"

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool

	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM rooms WHERE code = $1)", code)
	if err != nil {
		return false, fmt.Errorf("check room exists: %w", err)
	}

	return exists, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (code, content, created_at, last_modified)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		room.Code,
		room.Content,
		room.CreatedAt,
		room.LastModified,
	).Scan(&room.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.ErrDuplicateRoomCode
	}

	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}

	return nil
}

func (r *RoomRepository) GetByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room

	query := "SELECT id, code, content, created_at, last_modified FROM rooms WHERE code = $1"

	err := r.db.GetContext(ctx, &room, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("select room: %w", err)
	}

	return &room, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE rooms SET content = $1, last_modified = $2 WHERE code = $3",
		room.Content,
		room.LastModified,
		room.Code,
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update room rows affected: %w", err)
	}

	if aff == 0 {
		return models.ErrRoomNotFound
	}

	return nil
}
