package services

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/mwhitt/warbler-be/internal/models"
)

// DefaultSearchLimit is the page size used when the caller does not supply one.
const DefaultSearchLimit = 50

// TweetServiceProvider defines the interface for feed and search services.
type TweetServiceProvider interface {
	GetUserFeed(userID int64) ([]models.Tweet, error)
	PostTweet(userID int64, body string) (models.Tweet, error)
	SearchByKeyword(keywords string, limit, offset int) ([]models.Tweet, error)
	SearchByHashtag(tag string, limit, offset int) ([]models.Tweet, error)
}

// TweetService provides the by-author feed and the keyword/hashtag search.
type TweetService struct {
	db *sql.DB
}

// NewTweetService creates a new TweetService.
func NewTweetService(db *sql.DB) *TweetService {
	return &TweetService{db: db}
}

// Columns shared by every read: the tweet row joined to its author. Ordering
// is newest-first; the id tiebreak keeps pagination stable when two tweets
// share a timestamp.
const tweetColumns = "t.id, t.user_id, t.tweet, t.created, u.username, u.name"

// GetUserFeed returns every tweet owned by userID, newest first. An unknown
// user or a user with no tweets yields an empty slice, not an error.
func (s *TweetService) GetUserFeed(userID int64) ([]models.Tweet, error) {
	rows, err := s.db.Query(`
		SELECT `+tweetColumns+`
		FROM tweets t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = ?
		ORDER BY t.created DESC, t.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTweets(rows)
}

// PostTweet inserts a new tweet owned by userID. The creation timestamp is
// assigned here, never taken from the caller, so the feed ordering cannot be
// spoofed. The owning user must exist.
func (s *TweetService) PostTweet(userID int64, body string) (models.Tweet, error) {
	if body == "" {
		return models.Tweet{}, ErrMissingFields
	}

	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ?", userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tweet{}, ErrUnknownUser
		}
		return models.Tweet{}, err
	}

	stmt, err := s.db.Prepare("INSERT INTO tweets(user_id, tweet, created) VALUES(?, ?, ?)")
	if err != nil {
		return models.Tweet{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(userID, body, time.Now().UTC())
	if err != nil {
		return models.Tweet{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Tweet{}, err
	}

	// Re-read the row so the caller gets the assigned id and timestamp.
	var tweet models.Tweet
	row := s.db.QueryRow(`
		SELECT `+tweetColumns+`
		FROM tweets t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = ?`, id)
	if err := row.Scan(&tweet.ID, &tweet.UserID, &tweet.Tweet, &tweet.Created, &tweet.Username, &tweet.Name); err != nil {
		return models.Tweet{}, err
	}
	return tweet, nil
}

// SearchByKeyword runs a full-text search over tweet bodies. A tweet matches
// when it contains any of the supplied keywords. Results are ordered by
// recency, not relevance, then paginated.
func (s *TweetService) SearchByKeyword(keywords string, limit, offset int) ([]models.Tweet, error) {
	match := ftsQuery(keywords)
	if match == "" {
		return nil, ErrMissingFields
	}
	limit, offset = normalizePage(limit, offset)

	rows, err := s.db.Query(`
		SELECT `+tweetColumns+`
		FROM tweets_fts
		JOIN tweets t ON t.id = tweets_fts.rowid
		JOIN users u ON u.id = t.user_id
		WHERE tweets_fts MATCH ?
		ORDER BY t.created DESC, t.id DESC
		LIMIT ? OFFSET ?`, match, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTweets(rows)
}

// SearchByHashtag returns tweets containing the token #tag. The token must
// start the body or follow whitespace, and must end at a word boundary, so a
// search for "tag" matches "hello #tag" but never "#tagxyz".
func (s *TweetService) SearchByHashtag(tag string, limit, offset int) ([]models.Tweet, error) {
	if tag == "" {
		return nil, ErrMissingFields
	}
	limit, offset = normalizePage(limit, offset)

	pattern := `(?i)(^|\s)#` + regexp.QuoteMeta(tag) + `(\W|$)`

	rows, err := s.db.Query(`
		SELECT `+tweetColumns+`
		FROM tweets t
		JOIN users u ON u.id = t.user_id
		WHERE t.tweet REGEXP ?
		ORDER BY t.created DESC, t.id DESC
		LIMIT ? OFFSET ?`, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTweets(rows)
}

func scanTweets(rows *sql.Rows) ([]models.Tweet, error) {
	var tweets []models.Tweet
	for rows.Next() {
		var tweet models.Tweet
		if err := rows.Scan(&tweet.ID, &tweet.UserID, &tweet.Tweet, &tweet.Created, &tweet.Username, &tweet.Name); err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}
	return tweets, rows.Err()
}

// ftsQuery turns free-form caller keywords into an FTS5 query matching any of
// the terms. Each term is quoted so FTS5 operators in the input are treated
// as literal text rather than query syntax.
func ftsQuery(keywords string) string {
	fields := strings.Fields(keywords)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " OR ")
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
