package model

import "time"

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PostAuthor struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post is the full admin-facing post record including draft state.
type Post struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Published   bool       `json:"published"`
	Featured    bool       `json:"featured"`
	ReadTime    string     `json:"readTime"`
	AuthorID    int        `json:"authorId"`
	Author      PostAuthor `json:"author"`
	Tags        []Tag      `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// BlogPost is the flattened public view of a published post.
type BlogPost struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Excerpt  string    `json:"excerpt"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	ReadTime string    `json:"readTime"`
	Tags     []string  `json:"tags"`
	Author   string    `json:"author"`
	Slug     string    `json:"slug"`
}

// PublicView flattens a post for the blog API. Date prefers the publish
// timestamp and falls back to creation time, matching the site frontend.
func (p Post) PublicView() BlogPost {
	date := p.CreatedAt
	if p.PublishedAt != nil {
		date = *p.PublishedAt
	}

	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tags = append(tags, tag.Name)
	}

	return BlogPost{
		ID:       p.ID,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Content:  p.Content,
		Date:     date,
		ReadTime: p.ReadTime,
		Tags:     tags,
		Author:   p.Author.Username,
		Slug:     p.Slug,
	}
}
