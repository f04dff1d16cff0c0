package service

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"cyberblog/internal/model"
	"cyberblog/pkg/apierror"
)

const (
	maxTitleLength   = 200
	maxSlugLength    = 100
	maxExcerptLength = 500
	maxContentLength = 50000
	maxTagCount      = 10
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type PostRepository interface {
	List(ctx context.Context) ([]model.Post, error)
	ListPublished(ctx context.Context) ([]model.Post, error)
	ListPublishedByTag(ctx context.Context, tag string) ([]model.Post, error)
	SearchPublished(ctx context.Context, query string) ([]model.Post, error)
	FindByID(ctx context.Context, id int) (model.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (model.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, post model.Post, tags []string) (model.Post, error)
	Update(ctx context.Context, id int, patch model.UpdatePostRequest) (model.Post, error)
	Delete(ctx context.Context, id int) error
}

type PostService struct {
	posts PostRepository
}

func NewPostService(posts PostRepository) *PostService {
	return &PostService{posts: posts}
}

// ── Admin operations ─────────────────────────────────────────

func (s *PostService) ListAll(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) GetByID(ctx context.Context, id int) (model.Post, error) {
	if id <= 0 {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Invalid post ID")
	}

	return s.posts.FindByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, authorID int, req model.CreatePostRequest) (model.Post, error) {
	if req.Title == "" || req.Slug == "" || req.Excerpt == "" || req.Content == "" {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Missing required fields")
	}

	if len(req.Title) > maxTitleLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Title too long (max 200 characters)")
	}

	if len(req.Slug) > maxSlugLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Slug too long (max 100 characters)")
	}

	if len(req.Excerpt) > maxExcerptLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Excerpt too long (max 500 characters)")
	}

	if len(req.Content) > maxContentLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Content too long (max 50,000 characters)")
	}

	if !slugPattern.MatchString(req.Slug) {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Slug must contain only lowercase letters, numbers, and hyphens")
	}

	if len(req.Tags) > maxTagCount {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Tags must be an array with maximum 10 items")
	}

	taken, err := s.posts.SlugExists(ctx, req.Slug)
	if err != nil {
		return model.Post{}, err
	}
	if taken {
		return model.Post{}, model.ErrSlugTaken
	}

	readTime := strings.TrimSpace(req.ReadTime)
	if readTime == "" {
		readTime = "5 min read"
	}

	post := model.Post{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Published: req.Published,
		Featured:  req.Featured,
		ReadTime:  readTime,
		AuthorID:  authorID,
	}

	return s.posts.Create(ctx, post, req.Tags)
}

func (s *PostService) Update(ctx context.Context, id int, req model.UpdatePostRequest) (model.Post, error) {
	if id <= 0 {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Invalid post ID")
	}

	if req.Title != nil && len(*req.Title) > maxTitleLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Title must be a string with maximum 200 characters")
	}

	if req.Slug != nil {
		if len(*req.Slug) > maxSlugLength {
			return model.Post{}, apierror.New(http.StatusBadRequest, "Slug must be a string with maximum 100 characters")
		}
		if !slugPattern.MatchString(*req.Slug) {
			return model.Post{}, apierror.New(http.StatusBadRequest, "Slug must contain only lowercase letters, numbers, and hyphens")
		}
	}

	if req.Excerpt != nil && len(*req.Excerpt) > maxExcerptLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Excerpt must be a string with maximum 500 characters")
	}

	if req.Content != nil && len(*req.Content) > maxContentLength {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Content must be a string with maximum 50,000 characters")
	}

	if req.Tags != nil && len(*req.Tags) > maxTagCount {
		return model.Post{}, apierror.New(http.StatusBadRequest, "Tags must be an array with maximum 10 items")
	}

	return s.posts.Update(ctx, id, req)
}

func (s *PostService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return apierror.New(http.StatusBadRequest, "Invalid post ID")
	}

	return s.posts.Delete(ctx, id)
}

// ── Public blog operations ───────────────────────────────────

func (s *PostService) Published(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	return publicViews(posts), nil
}

func (s *PostService) PublishedBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	post, err := s.posts.FindPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return model.BlogPost{}, err
	}

	return post.PublicView(), nil
}

func (s *PostService) PublishedByTag(ctx context.Context, tag string) ([]model.BlogPost, error) {
	posts, err := s.posts.ListPublishedByTag(ctx, strings.TrimSpace(tag))
	if err != nil {
		return nil, err
	}

	return publicViews(posts), nil
}

func (s *PostService) Search(ctx context.Context, query string) ([]model.BlogPost, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierror.New(http.StatusBadRequest, "Search query is required")
	}

	posts, err := s.posts.SearchPublished(ctx, query)
	if err != nil {
		return nil, err
	}

	return publicViews(posts), nil
}

func publicViews(posts []model.Post) []model.BlogPost {
	views := make([]model.BlogPost, 0, len(posts))
	for _, post := range posts {
		views = append(views, post.PublicView())
	}

	return views
}
