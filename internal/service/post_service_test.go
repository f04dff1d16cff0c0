package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberblog/internal/model"
	"cyberblog/pkg/apierror"
)

type stubPostRepo struct {
	slugTaken bool
	created   *model.Post
	updated   *model.UpdatePostRequest
	posts     []model.Post
}

func (s *stubPostRepo) List(context.Context) ([]model.Post, error)          { return s.posts, nil }
func (s *stubPostRepo) ListPublished(context.Context) ([]model.Post, error) { return s.posts, nil }
func (s *stubPostRepo) ListPublishedByTag(context.Context, string) ([]model.Post, error) {
	return s.posts, nil
}
func (s *stubPostRepo) SearchPublished(context.Context, string) ([]model.Post, error) {
	return s.posts, nil
}
func (s *stubPostRepo) FindByID(context.Context, int) (model.Post, error) {
	return model.Post{}, model.ErrPostNotFound
}
func (s *stubPostRepo) FindPublishedBySlug(context.Context, string) (model.Post, error) {
	return model.Post{}, model.ErrPostNotFound
}
func (s *stubPostRepo) SlugExists(context.Context, string) (bool, error) { return s.slugTaken, nil }
func (s *stubPostRepo) Create(_ context.Context, post model.Post, _ []string) (model.Post, error) {
	s.created = &post
	return post, nil
}
func (s *stubPostRepo) Update(_ context.Context, _ int, patch model.UpdatePostRequest) (model.Post, error) {
	s.updated = &patch
	return model.Post{}, nil
}
func (s *stubPostRepo) Delete(context.Context, int) error { return nil }

func validCreate() model.CreatePostRequest {
	return model.CreatePostRequest{
		Title:   "Threat Hunting Basics",
		Slug:    "threat-hunting-basics",
		Excerpt: "An introduction to threat hunting.",
		Content: "Long form content.",
		Tags:    []string{"threat-hunting"},
	}
}

func assertBadRequest(t *testing.T, err error, message string) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Equal(t, message, apiErr.Message)
}

func TestPostService_CreateRequiresFields(t *testing.T) {
	svc := NewPostService(&stubPostRepo{})

	req := validCreate()
	req.Title = ""

	_, err := svc.Create(context.Background(), 1, req)
	assertBadRequest(t, err, "Missing required fields")
}

func TestPostService_CreateFieldLimits(t *testing.T) {
	svc := NewPostService(&stubPostRepo{})

	cases := []struct {
		name    string
		mutate  func(*model.CreatePostRequest)
		message string
	}{
		{
			name:    "title too long",
			mutate:  func(r *model.CreatePostRequest) { r.Title = strings.Repeat("a", 201) },
			message: "Title too long (max 200 characters)",
		},
		{
			name:    "slug too long",
			mutate:  func(r *model.CreatePostRequest) { r.Slug = strings.Repeat("a", 101) },
			message: "Slug too long (max 100 characters)",
		},
		{
			name:    "excerpt too long",
			mutate:  func(r *model.CreatePostRequest) { r.Excerpt = strings.Repeat("a", 501) },
			message: "Excerpt too long (max 500 characters)",
		},
		{
			name:    "content too long",
			mutate:  func(r *model.CreatePostRequest) { r.Content = strings.Repeat("a", 50001) },
			message: "Content too long (max 50,000 characters)",
		},
		{
			name:    "bad slug charset",
			mutate:  func(r *model.CreatePostRequest) { r.Slug = "Hello World!" },
			message: "Slug must contain only lowercase letters, numbers, and hyphens",
		},
		{
			name:    "too many tags",
			mutate:  func(r *model.CreatePostRequest) { r.Tags = make([]string, 11) },
			message: "Tags must be an array with maximum 10 items",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreate()
			tc.mutate(&req)

			_, err := svc.Create(context.Background(), 1, req)
			assertBadRequest(t, err, tc.message)
		})
	}
}

func TestPostService_CreateRejectsTakenSlug(t *testing.T) {
	svc := NewPostService(&stubPostRepo{slugTaken: true})

	_, err := svc.Create(context.Background(), 1, validCreate())
	assert.ErrorIs(t, err, model.ErrSlugTaken)
}

func TestPostService_CreateDefaultsReadTime(t *testing.T) {
	repo := &stubPostRepo{}
	svc := NewPostService(repo)

	_, err := svc.Create(context.Background(), 42, validCreate())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "5 min read", repo.created.ReadTime)
	assert.Equal(t, 42, repo.created.AuthorID)
}

func TestPostService_UpdateValidatesID(t *testing.T) {
	svc := NewPostService(&stubPostRepo{})

	_, err := svc.Update(context.Background(), 0, model.UpdatePostRequest{})
	assertBadRequest(t, err, "Invalid post ID")
}

func TestPostService_UpdateFieldLimits(t *testing.T) {
	svc := NewPostService(&stubPostRepo{})

	longTitle := strings.Repeat("a", 201)
	_, err := svc.Update(context.Background(), 1, model.UpdatePostRequest{Title: &longTitle})
	assertBadRequest(t, err, "Title must be a string with maximum 200 characters")

	badSlug := "Not A Slug"
	_, err = svc.Update(context.Background(), 1, model.UpdatePostRequest{Slug: &badSlug})
	assertBadRequest(t, err, "Slug must contain only lowercase letters, numbers, and hyphens")
}

func TestPostService_SearchRequiresQuery(t *testing.T) {
	svc := NewPostService(&stubPostRepo{})

	_, err := svc.Search(context.Background(), "   ")
	assertBadRequest(t, err, "Search query is required")
}

func TestPostService_PublishedFlattensPosts(t *testing.T) {
	publishedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubPostRepo{posts: []model.Post{{
		ID:          3,
		Title:       "Incident Response Playbooks",
		Slug:        "incident-response-playbooks",
		ReadTime:    "8 min read",
		Author:      model.PostAuthor{Username: "analyst"},
		Tags:        []model.Tag{{ID: 1, Name: "incident-response"}},
		CreatedAt:   publishedAt.Add(-48 * time.Hour),
		PublishedAt: &publishedAt,
	}}}
	svc := NewPostService(repo)

	views, err := svc.Published(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, publishedAt, views[0].Date)
	assert.Equal(t, "analyst", views[0].Author)
	assert.Equal(t, []string{"incident-response"}, views[0].Tags)
}
