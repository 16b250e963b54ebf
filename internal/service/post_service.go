package service

import (
	"context"
	"time"

	"scribe/internal/guard"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"
	"scribe/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PostService runs every post route through the guard, then validation,
// then the repository.
type PostService struct {
	posts    repository.PostRepository
	accounts repository.AccountRepository
	policy   *guard.Policy
	now      func() time.Time
}

type CreatePostInput struct {
	Title string
	Body  string
}

type UpdatePostInput struct {
	PostID uint
	Title  string
	Body   string
}

func NewPostService(
	posts repository.PostRepository,
	accounts repository.AccountRepository,
	policy *guard.Policy,
) *PostService {
	return &PostService{
		posts:    posts,
		accounts: accounts,
		policy:   policy,
		now:      time.Now,
	}
}

// ListFeed returns every live post, newest first.
func (s *PostService) ListFeed(ctx context.Context, state models.SessionState) ([]*models.Post, error) {
	if err := s.policy.Decide(guard.ActionViewFeed, state, nil).Err(); err != nil {
		return nil, err
	}
	return s.posts.ListAllOrdered(ctx)
}

func (s *PostService) GetPost(ctx context.Context, state models.SessionState, id uint) (*models.Post, error) {
	if err := s.policy.Decide(guard.ActionViewFeed, state, nil).Err(); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// ListAccountPosts returns one author's posts. An unknown author is NOT_FOUND
// rather than an empty list.
func (s *PostService) ListAccountPosts(ctx context.Context, state models.SessionState, accountID uint) ([]*models.Post, error) {
	if err := s.policy.Decide(guard.ActionViewFeed, state, nil).Err(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.posts.ListByAccount(ctx, accountID)
}

func (s *PostService) CreatePost(ctx context.Context, state models.SessionState, in CreatePostInput) (*models.Post, error) {
	if err := s.policy.Decide(guard.ActionWrite, state, nil).Err(); err != nil {
		return nil, err
	}
	if err := validation.ValidatePost(in.Title, in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:     in.Title,
		Body:      in.Body,
		AccountID: state.AccountID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "post created", "post_id", post.ID, "account_id", post.AccountID)
	return post, nil
}

// UpdatePost replaces title and body of a post owned by the caller.
func (s *PostService) UpdatePost(ctx context.Context, state models.SessionState, in UpdatePostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "service.post", "UpdatePost",
		attribute.Int64("post.id", int64(in.PostID)))
	post, err := s.updatePost(ctx, state, in)
	observability.EndSpan(span, err)
	return post, err
}

func (s *PostService) updatePost(ctx context.Context, state models.SessionState, in UpdatePostInput) (*models.Post, error) {
	if _, err := s.authorizeOwner(ctx, guard.ActionEdit, state, in.PostID); err != nil {
		return nil, err
	}
	if err := validation.ValidatePost(in.Title, in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	updated, err := s.posts.Update(ctx, in.PostID, in.Title, in.Body)
	if err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "post updated", "post_id", updated.ID, "account_id", state.AccountID)
	return updated, nil
}

// DeletePost removes a post owned by the caller.
func (s *PostService) DeletePost(ctx context.Context, state models.SessionState, postID uint) error {
	ctx, span := observability.StartSpan(ctx, "service.post", "DeletePost",
		attribute.Int64("post.id", int64(postID)))
	err := s.deletePost(ctx, state, postID)
	observability.EndSpan(span, err)
	return err
}

func (s *PostService) deletePost(ctx context.Context, state models.SessionState, postID uint) error {
	if _, err := s.authorizeOwner(ctx, guard.ActionDelete, state, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "post deleted", "post_id", postID, "account_id", state.AccountID)
	return nil
}

// authorizeOwner rejects anonymous callers before touching storage, then
// loads the post and applies the owner rule.
func (s *PostService) authorizeOwner(ctx context.Context, action guard.Action, state models.SessionState, postID uint) (*models.Post, error) {
	if !state.IsAuthenticated() {
		return nil, s.policy.Decide(action, state, nil).Err()
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Decide(action, state, post).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "post mutation denied",
			"action", string(action), "post_id", postID, "account_id", state.AccountID)
		return nil, err
	}
	return post, nil
}
