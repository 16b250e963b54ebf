package repository

import (
	"context"
	"errors"

	"scribe/internal/models"
	"scribe/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. It performs
// no identity checks; callers decide who may do what.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListAllOrdered(ctx context.Context) ([]*models.Post, error)
	ListByAccount(ctx context.Context, accountID uint) ([]*models.Post, error)
	Update(ctx context.Context, id uint, title, body string) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// feedOrder is newest first; id breaks ties between equal timestamps.
const feedOrder = "created_at DESC, id DESC"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, span := observability.StartSpan(ctx, "repository.post", "Create",
		attribute.Int64("account.id", int64(post.AccountID)))
	err := r.db.WithContext(ctx).Omit("Author").Create(post).Error
	observability.EndSpan(span, err)

	if err != nil {
		if isForeignKeyError(err) {
			return models.NewValidationError("Post owner does not exist")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListAllOrdered(ctx context.Context) ([]*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "repository.post", "ListAllOrdered")
	posts := make([]*models.Post, 0)
	err := r.db.WithContext(ctx).Preload("Author").Order(feedOrder).Find(&posts).Error
	observability.EndSpan(span, err)

	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAccount(ctx context.Context, accountID uint) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("account_id = ?", accountID).
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update overwrites title and body only; owner and creation time never change.
func (r *postRepository) Update(ctx context.Context, id uint, title, body string) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "repository.post", "Update",
		attribute.Int64("post.id", int64(id)))
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "body": body})
	observability.EndSpan(span, result.Error)

	if result.Error != nil {
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := observability.StartSpan(ctx, "repository.post", "Delete",
		attribute.Int64("post.id", int64(id)))
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	observability.EndSpan(span, result.Error)

	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
