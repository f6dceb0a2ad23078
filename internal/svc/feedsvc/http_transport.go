package feedsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acebook/internal/domain"
	context_ "acebook/internal/infra/context"
	"acebook/internal/infra/logging"
	http_ "acebook/internal/infra/transport/http"
)

// messageRequest is the JSON body of post-creation and comment requests.
// The token field is a tolerated transport location for the bearer
// token; the auth gate consumes it, handlers ignore it.
type messageRequest struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// postsResponse is the body of every successful feed operation: the
// feed as it stands plus the rotated token the client must store.
type postsResponse struct {
	Posts []*domain.Post `json:"posts"`
	Token string         `json:"token"`
}

// errorResponse is the body of failed feed operations. Business
// failures (bad input, unknown post) still carry the rotated token:
// authentication succeeded, so rotation happened.
type errorResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// HTTPTransport handles HTTP requests for the feed service. Every
// route sits behind the auth gate; no endpoint skips rotation and none
// rotates twice.
type HTTPTransport struct {
	feedSvc *FeedService
	router  chi.Router
	log     logging.Logger
}

// NewHTTPTransport creates a new HTTPTransport serving, relative to its
// mount point:
// - GET /: list all posts
// - POST /: create a post
// - POST /{id}: append a comment to a post
// - POST /{id}/likes: toggle the caller's like on a post.
func NewHTTPTransport(feedSvc *FeedService, tokens http_.TokenRotator) *HTTPTransport {
	ht := &HTTPTransport{
		feedSvc: feedSvc,
		router:  nil,
		log:     logging.GetLogger("svc.feedsvc.http_transport"),
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http_.AuthorizingMiddleware(next, tokens, ht.log)
	})
	router.Get("/", ht.HandleListPosts)
	router.Post("/", ht.HandleCreatePost)
	router.Post("/{id}", ht.HandleAddComment)
	router.Post("/{id}/likes", ht.HandleToggleLike)
	ht.router = router

	return ht
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.router.ServeHTTP(w, r)
}

// HandleListPosts returns every post in the feed.
func (ht *HTTPTransport) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListPosts(w, r)
}

func (ht *HTTPTransport) handleListPosts(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list posts failed", "error", err)
		} else {
			log.DebugContext(ctx, "posts listed")
		}
	}(r.Context())

	posts, err := ht.feedSvc.ListPosts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})

		return fmt.Errorf("list posts: %w", err)
	}

	writeJSON(w, http.StatusOK, postsResponse{Posts: posts, Token: rotatedToken(r)})

	return nil
}

// HandleCreatePost creates a new post authored by the caller and
// responds with the updated feed.
func (ht *HTTPTransport) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleCreatePost(w, r)
}

func (ht *HTTPTransport) handleCreatePost(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "create post failed", "error", err)
		} else {
			log.DebugContext(ctx, "post created")
		}
	}(r.Context())

	req, err := decodeMessage(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "bad request", Token: rotatedToken(r)})

		return err
	}

	userID, _ := context_.UserIDFromContext(r.Context())

	if _, err := ht.feedSvc.CreatePost(r.Context(), userID, req.Message); err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "bad request", Token: rotatedToken(r)})
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
		}

		return fmt.Errorf("create post: %w", err)
	}

	return ht.respondWithFeed(w, r, http.StatusCreated)
}

// HandleAddComment appends a comment to the addressed post and
// responds with the updated feed.
func (ht *HTTPTransport) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleAddComment(w, r)
}

func (ht *HTTPTransport) handleAddComment(w http.ResponseWriter, r *http.Request) (err error) {
	postID := chi.URLParam(r, "id")
	log := ht.log.With(
		logging.Group("http", "method", r.Method, "url", r.URL.String()),
		logging.Group("post", "id", postID),
	)

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "add comment failed", "error", err)
		} else {
			log.DebugContext(ctx, "comment added")
		}
	}(r.Context())

	req, err := decodeMessage(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "bad request", Token: rotatedToken(r)})

		return err
	}

	userID, _ := context_.UserIDFromContext(r.Context())

	if _, err := ht.feedSvc.AddComment(r.Context(), postID, userID, req.Message); err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found", Token: rotatedToken(r)})
		case errors.Is(err, domain.ErrEmptyMessage):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "bad request", Token: rotatedToken(r)})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
		}

		return fmt.Errorf("add comment: %w", err)
	}

	return ht.respondWithFeed(w, r, http.StatusCreated)
}

// HandleToggleLike toggles the caller's like marker on the addressed
// post and responds with the updated feed.
func (ht *HTTPTransport) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleToggleLike(w, r)
}

func (ht *HTTPTransport) handleToggleLike(w http.ResponseWriter, r *http.Request) (err error) {
	postID := chi.URLParam(r, "id")
	log := ht.log.With(
		logging.Group("http", "method", r.Method, "url", r.URL.String()),
		logging.Group("post", "id", postID),
	)

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "toggle like failed", "error", err)
		} else {
			log.DebugContext(ctx, "like toggled")
		}
	}(r.Context())

	userID, _ := context_.UserIDFromContext(r.Context())

	if _, err := ht.feedSvc.ToggleLike(r.Context(), postID, userID); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found", Token: rotatedToken(r)})
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
		}

		return fmt.Errorf("toggle like: %w", err)
	}

	return ht.respondWithFeed(w, r, http.StatusCreated)
}

func (ht *HTTPTransport) respondWithFeed(w http.ResponseWriter, r *http.Request, status int) error {
	posts, err := ht.feedSvc.ListPosts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})

		return fmt.Errorf("list posts: %w", err)
	}

	writeJSON(w, status, postsResponse{Posts: posts, Token: rotatedToken(r)})

	return nil
}

func decodeMessage(r *http.Request) (messageRequest, error) {
	var req messageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return messageRequest{}, fmt.Errorf("decode request: %w", err)
	}

	return req, nil
}

func rotatedToken(r *http.Request) string {
	token, _ := context_.RotatedTokenFromContext(r.Context())

	return token
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
