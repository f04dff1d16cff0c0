package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cyberblog/internal/model"
)

const postColumns = `
	p.id, p.title, p.slug, p.excerpt, p.content, p.published, p.featured,
	p.read_time, p.author_id, u.username, u.email,
	p.created_at, p.updated_at, p.published_at,
	COALESCE(array_agg(t.id ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}') AS tag_ids,
	COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}') AS tag_names`

const postJoins = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id`

const postGroupBy = ` GROUP BY p.id, u.username, u.email`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	query := `SELECT` + postColumns + postJoins + postGroupBy + ` ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostRepository) ListPublished(ctx context.Context) ([]model.Post, error) {
	query := `SELECT` + postColumns + postJoins +
		` WHERE p.published` + postGroupBy +
		` ORDER BY p.published_at DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostRepository) ListPublishedByTag(ctx context.Context, tag string) ([]model.Post, error) {
	query := `SELECT` + postColumns + postJoins + `
		WHERE p.published AND EXISTS (
			SELECT 1 FROM post_tags ptf
			JOIN tags tf ON tf.id = ptf.tag_id
			WHERE ptf.post_id = p.id AND tf.name = $1
		)` + postGroupBy + ` ORDER BY p.published_at DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, query, tag)
	if err != nil {
		return nil, fmt.Errorf("list posts by tag: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostRepository) SearchPublished(ctx context.Context, query string) ([]model.Post, error) {
	pattern := "%" + escapeLike(query) + "%"
	sql := `SELECT` + postColumns + postJoins + `
		WHERE p.published AND (p.title ILIKE $1 OR p.excerpt ILIKE $1 OR p.content ILIKE $1)` +
		postGroupBy + ` ORDER BY p.published_at DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, sql, pattern)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostRepository) FindByID(ctx context.Context, id int) (model.Post, error) {
	query := `SELECT` + postColumns + postJoins + ` WHERE p.id = $1` + postGroupBy

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return post, nil
}

func (r *PostRepository) FindPublishedBySlug(ctx context.Context, slug string) (model.Post, error) {
	query := `SELECT` + postColumns + postJoins + ` WHERE p.slug = $1 AND p.published` + postGroupBy

	post, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by slug: %w", err)
	}
	return post, nil
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}
	return exists, nil
}

func (r *PostRepository) Create(ctx context.Context, post model.Post, tags []string) (model.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Post{}, fmt.Errorf("begin create post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO posts (title, slug, excerpt, content, published, featured, read_time, author_id,
		                    created_at, updated_at, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now(),
		         CASE WHEN $5 THEN now() END)
		 RETURNING id`,
		post.Title, post.Slug, post.Excerpt, post.Content,
		post.Published, post.Featured, post.ReadTime, post.AuthorID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, model.ErrSlugTaken
		}
		return model.Post{}, fmt.Errorf("insert post: %w", err)
	}

	if err := linkTags(ctx, tx, id, tags); err != nil {
		return model.Post{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Post{}, fmt.Errorf("commit create post: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *PostRepository) Update(ctx context.Context, id int, patch model.UpdatePostRequest) (model.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Post{}, fmt.Errorf("begin update post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Excerpt != nil {
		add("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if patch.ReadTime != nil {
		add("read_time", *patch.ReadTime)
	}
	if patch.Published != nil {
		add("published", *patch.Published)
		if *patch.Published {
			sets = append(sets, "published_at = now()")
		}
	}

	sql := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, model.ErrSlugTaken
		}
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Post{}, model.ErrPostNotFound
	}

	if patch.Tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
			return model.Post{}, fmt.Errorf("clear post tags: %w", err)
		}
		if err := linkTags(ctx, tx, id, *patch.Tags); err != nil {
			return model.Post{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Post{}, fmt.Errorf("commit update post: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// linkTags connects post id to every named tag, creating missing tags.
func linkTags(ctx context.Context, tx pgx.Tx, postID int, tags []string) error {
	for _, name := range tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tagID int
		err := tx.QueryRow(ctx,
			`INSERT INTO tags (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, name).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, postID, tagID)
		if err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}

	return nil
}

func scanPosts(rows pgx.Rows) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (model.Post, error) {
	var (
		p        model.Post
		tagIDs   []int32
		tagNames []string
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Published, &p.Featured,
		&p.ReadTime, &p.AuthorID, &p.Author.Username, &p.Author.Email,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt, &tagIDs, &tagNames)
	if err != nil {
		return model.Post{}, err
	}

	p.Tags = make([]model.Tag, 0, len(tagNames))
	for i, name := range tagNames {
		p.Tags = append(p.Tags, model.Tag{ID: int(tagIDs[i]), Name: name})
	}

	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// escapeLike neutralizes LIKE wildcards in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
