package repository

import (
	"context"
	"database/sql"
	"fmt"

	"musafir/internal/database"
	apperrors "musafir/internal/errors"
	"musafir/internal/models"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (event_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		review.EventID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	review := &models.Review{}
	query := `
		SELECT r.id, r.event_id, r.user_id, u.name, r.rating, r.comment, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.EventID,
		&review.UserID,
		&review.UserName,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return review, err
}

func (r *ReviewRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Review, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, u.name, r.rating, r.comment, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at DESC`

	return r.list(ctx, query, eventID)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, u.name, r.rating, r.comment, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC`

	return r.list(ctx, query, userID)
}

func (r *ReviewRepository) Update(ctx context.Context, id int64, rating int, comment string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3`,
		rating, comment, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "review")
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "review")
}

func (r *ReviewRepository) list(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID,
			&review.EventID,
			&review.UserID,
			&review.UserName,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func requireAffected(result sql.Result, resource string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, resource)
	}
	return nil
}
