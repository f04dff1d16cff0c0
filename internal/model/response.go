package model

type LoginResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
	ExpiresIn string `json:"expiresIn"`
}

type PostsResponse struct {
	Posts []Post `json:"posts"`
}

type PostResponse struct {
	Post Post `json:"post"`
}

type BlogPostsResponse struct {
	Posts []BlogPost `json:"posts"`
}

type BlogPostResponse struct {
	Post BlogPost `json:"post"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
