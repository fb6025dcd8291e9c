package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mwhitt/warbler-be/internal/models"
	"github.com/mwhitt/warbler-be/internal/services"
)

// TweetHandler handles HTTP requests for the feed and the search endpoints.
type TweetHandler struct {
	service services.TweetServiceProvider
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(service services.TweetServiceProvider) *TweetHandler {
	return &TweetHandler{service: service}
}

// TweetPayload defines the structure for posting a tweet.
type TweetPayload struct {
	Tweet string `json:"tweet"`
}

// GetFeed handles retrieving a user's tweets, newest first.
func (h *TweetHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	tweets, err := h.service.GetUserFeed(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to retrieve user feed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeTweets(w, tweets)
}

// Post handles publishing a new tweet for a user.
func (h *TweetHandler) Post(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var payload TweetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tweet, err := h.service.PostTweet(id, payload.Tweet)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			http.Error(w, "Missing tweet body", http.StatusBadRequest)
		case errors.Is(err, services.ErrUnknownUser):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Int64("user_id", id).Msg("Failed to post tweet")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tweet": tweet})
}

// Search handles full-text keyword search over tweet bodies.
func (h *TweetHandler) Search(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query().Get("keywords")
	if keywords == "" {
		http.Error(w, "Missing keywords", http.StatusBadRequest)
		return
	}

	limit, offset, err := pageParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tweets, err := h.service.SearchByKeyword(keywords, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			http.Error(w, "Missing keywords", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("keywords", keywords).Msg("Keyword search failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeTweets(w, tweets)
}

// Hashtag handles boundary-anchored hashtag search.
func (h *TweetHandler) Hashtag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "hashtag")

	limit, offset, err := pageParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tweets, err := h.service.SearchByHashtag(tag, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			http.Error(w, "Missing hashtag", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("hashtag", tag).Msg("Hashtag search failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeTweets(w, tweets)
}

// pathID parses the {id} URL parameter as a user identifier.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pageParams parses limit/offset query parameters. Absent values take the
// defaults; present values must parse as non-negative integers and are never
// silently coerced.
func pageParams(r *http.Request) (limit, offset int, err error) {
	limit = services.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
	}
	return limit, offset, nil
}

// writeTweets serializes the {tweets: [...]} envelope, keeping an empty result
// an empty array rather than null.
func writeTweets(w http.ResponseWriter, tweets []models.Tweet) {
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tweets": tweets})
}
