package repository

import (
	"context"
	"database/sql"

	"musafir/internal/database"
	"musafir/internal/models"
)

const testimonialColumns = `id, author_name, location, content, rating, approved, created_at`

type TestimonialRepository struct {
	db *database.DB
}

func NewTestimonialRepository(db *database.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	query := `
		INSERT INTO testimonials (author_name, location, content, rating, approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		t.AuthorName, t.Location, t.Content, t.Rating, t.Approved,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id int64) (*models.Testimonial, error) {
	t := &models.Testimonial{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id,
	).Scan(&t.ID, &t.AuthorName, &t.Location, &t.Content, &t.Rating, &t.Approved, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// List returns testimonials, optionally restricted to approved ones for the
// public pages.
func (r *TestimonialRepository) List(ctx context.Context, approvedOnly bool) ([]models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if approvedOnly {
		query += ` WHERE approved`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var testimonials []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.AuthorName, &t.Location, &t.Content, &t.Rating, &t.Approved, &t.CreatedAt); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

func (r *TestimonialRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE testimonials SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "testimonial")
}

func (r *TestimonialRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "testimonial")
}
