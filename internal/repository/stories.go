package repository

import (
	"context"
	"database/sql"

	"musafir/internal/database"
	"musafir/internal/models"
)

const storyColumns = `id, title, slug, excerpt, content, cover_image, published, created_at, updated_at`

type StoryRepository struct {
	db *database.DB
}

func NewStoryRepository(db *database.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

func scanStory(row interface{ Scan(...any) error }) (*models.Story, error) {
	story := &models.Story{}
	err := row.Scan(
		&story.ID,
		&story.Title,
		&story.Slug,
		&story.Excerpt,
		&story.Content,
		&story.CoverImage,
		&story.Published,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return story, nil
}

func (r *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories (title, slug, excerpt, content, cover_image, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		story.Title, story.Slug, story.Excerpt, story.Content, story.CoverImage, story.Published,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)
}

func (r *StoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Story, error) {
	story, err := scanStory(r.db.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return story, err
}

func (r *StoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	story, err := scanStory(r.db.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return story, err
}

func (r *StoryRepository) List(ctx context.Context, publishedOnly bool) ([]models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories`
	if publishedOnly {
		query += ` WHERE published`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *story)
	}
	return stories, rows.Err()
}

func (r *StoryRepository) Update(ctx context.Context, story *models.Story) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE stories
		SET title = $1, slug = $2, excerpt = $3, content = $4, cover_image = $5,
		    published = $6, updated_at = NOW()
		WHERE id = $7`,
		story.Title, story.Slug, story.Excerpt, story.Content, story.CoverImage,
		story.Published, story.ID)
	if err != nil {
		return err
	}
	return requireAffected(result, "story")
}

func (r *StoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "story")
}
