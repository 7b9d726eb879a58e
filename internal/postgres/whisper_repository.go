package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Simran251393/whisperwalls/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotLimit caps the rows handed to the in-memory feed engine per query.
const snapshotLimit = 1000

// WhisperRepo implements domain.WhisperRepository backed by PostgreSQL.
type WhisperRepo struct {
	pool *pgxpool.Pool
}

func NewWhisperRepo(pool *pgxpool.Pool) *WhisperRepo {
	return &WhisperRepo{pool: pool}
}

func (r *WhisperRepo) Insert(ctx context.Context, params domain.CreateWhisper) (*domain.Whisper, error) {
	var lat, lng *float64
	if params.Location != nil {
		lat, lng = &params.Location.Lat, &params.Location.Lng
	}

	w := domain.Whisper{
		Text:   params.Text,
		Mood:   params.Mood,
		UserID: params.UserID,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO whispers (body, mood, user_id, lat, lng)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		params.Text, params.Mood, params.UserID, lat, lng,
	).Scan(&w.ID, &w.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert whisper: %w", err)
	}
	return &w, nil
}

func (r *WhisperRepo) Like(ctx context.Context, whisperID uuid.UUID) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx,
		`UPDATE whispers SET likes = likes + 1 WHERE id = $1 RETURNING likes`,
		whisperID,
	).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrWhisperNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to like whisper: %w", err)
	}
	return likes, nil
}

// List returns the newest whispers with the viewer-relative distance
// computed in SQL (haversine). Distance is 0 when either side has no
// recorded location.
func (r *WhisperRepo) List(ctx context.Context, viewer *domain.Location) ([]domain.Whisper, error) {
	var lat, lng *float64
	if viewer != nil {
		lat, lng = &viewer.Lat, &viewer.Lng
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, body, mood, likes, user_id, created_at,
		        CASE WHEN $1::float8 IS NULL OR lat IS NULL THEN 0
		             ELSE 2 * 6371000 * asin(sqrt(
		                    pow(sin(radians(lat - $1) / 2), 2) +
		                    cos(radians($1)) * cos(radians(lat)) *
		                    pow(sin(radians(lng - $2) / 2), 2)))
		        END AS distance
		 FROM whispers
		 ORDER BY created_at DESC
		 LIMIT $3`,
		lat, lng, snapshotLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list whispers: %w", err)
	}
	defer rows.Close()

	return scanWhispers(rows)
}

func (r *WhisperRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Whisper, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, body, mood, likes, user_id, created_at, 0 AS distance
		 FROM whispers
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list whispers by user: %w", err)
	}
	defer rows.Close()

	return scanWhispers(rows)
}

func scanWhispers(rows pgx.Rows) ([]domain.Whisper, error) {
	whispers := make([]domain.Whisper, 0, 64)
	for rows.Next() {
		var w domain.Whisper
		if err := rows.Scan(&w.ID, &w.Text, &w.Mood, &w.Likes, &w.UserID, &w.Timestamp, &w.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan whisper: %w", err)
		}
		whispers = append(whispers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read whispers: %w", err)
	}
	return whispers, nil
}
