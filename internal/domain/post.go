package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrPostNotFound is returned when operating on a non-existent post.
	ErrPostNotFound = errors.New("post not found")
	// ErrEmptyMessage is returned when a post or comment message is empty or blank.
	ErrEmptyMessage = errors.New("empty message")
)

// Comment is a value object embedded inside a Post. Comments have no
// identity of their own; their position in the parent's list is their
// display order, and the list only ever grows.
type Comment struct {
	Message   string `json:"message"`
	AuthorID  string `json:"author,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Post is a single feed entry. It owns its comment list and like set
// exclusively; both are stored inside the post document.
type Post struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	AuthorID  string    `json:"author,omitempty"`
	CreatedAt int64     `json:"createdAt"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// NewPost constructs a post with an empty comment list and like set.
// Returns ErrEmptyMessage if the message is empty or blank.
func NewPost(id, authorID, message string, now time.Time) (*Post, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	return &Post{
		ID:        id,
		Message:   message,
		AuthorID:  authorID,
		CreatedAt: now.Unix(),
		Likes:     []string{},
		Comments:  []Comment{},
	}, nil
}

// AppendComment adds a comment to the end of the post's comment list.
// Returns ErrEmptyMessage if the message is empty or blank.
func (p *Post) AppendComment(authorID, message string, now time.Time) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	p.Comments = append(p.Comments, Comment{
		Message:   message,
		AuthorID:  authorID,
		CreatedAt: now.Unix(),
	})

	return nil
}

// ToggleLike adds the user's like marker, or removes it when already
// present. A user holds at most one marker per post. Returns whether
// the post is liked by the user after the call.
func (p *Post) ToggleLike(userID string) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)

			return false
		}
	}

	p.Likes = append(p.Likes, userID)

	return true
}

// LikedBy reports whether the user currently likes the post.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}

	return false
}
