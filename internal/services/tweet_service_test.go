package services_test

import (
	"database/sql"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mwhitt/warbler-be/internal/models"
	"github.com/mwhitt/warbler-be/internal/services"
)

// fixtureUser registers a user for tweet tests to hang posts off.
func fixtureUser(t *testing.T, db *sql.DB, username string) models.User {
	t.Helper()

	user, err := services.NewUserService(db).Register(username+"@x.com", "pw", username, username)
	if err != nil {
		t.Fatalf("register fixture user %q: %v", username, err)
	}
	return user
}

func bodies(tweets []models.Tweet) []string {
	out := make([]string, 0, len(tweets))
	for _, tw := range tweets {
		out = append(out, tw.Tweet)
	}
	return out
}

func TestPostTweet(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	user := fixtureUser(t, db, "alice")
	svc := services.NewTweetService(db)

	tweet, err := svc.PostTweet(user.ID, "hello world")
	c.Assert(err, qt.IsNil)
	c.Assert(tweet.ID > 0, qt.Equals, true)
	c.Assert(tweet.UserID, qt.Equals, user.ID)
	c.Assert(tweet.Tweet, qt.Equals, "hello world")
	c.Assert(tweet.Created.IsZero(), qt.Equals, false)
	c.Assert(tweet.Username, qt.Equals, "alice")
}

func TestPostTweetUnknownUser(t *testing.T) {
	c := qt.New(t)
	svc := services.NewTweetService(newTestDB(t))

	_, err := svc.PostTweet(42, "into the void")
	c.Assert(err, qt.ErrorIs, services.ErrUnknownUser)
}

func TestPostTweetRequiresBody(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	user := fixtureUser(t, db, "alice")

	_, err := services.NewTweetService(db).PostTweet(user.ID, "")
	c.Assert(err, qt.ErrorIs, services.ErrMissingFields)
}

func TestGetUserFeedOrdering(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	alice := fixtureUser(t, db, "alice")
	bob := fixtureUser(t, db, "bob")
	svc := services.NewTweetService(db)

	for i := 1; i <= 3; i++ {
		_, err := svc.PostTweet(alice.ID, fmt.Sprintf("tweet %d", i))
		c.Assert(err, qt.IsNil)
	}
	_, err := svc.PostTweet(bob.ID, "not alice's")
	c.Assert(err, qt.IsNil)

	feed, err := svc.GetUserFeed(alice.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(feed), qt.DeepEquals, []string{"tweet 3", "tweet 2", "tweet 1"})
	for i := 1; i < len(feed); i++ {
		c.Assert(feed[i].Created.After(feed[i-1].Created), qt.Equals, false)
	}
	c.Assert(feed[0].Username, qt.Equals, "alice")

	// A later post always lands at the head of the feed.
	_, err = svc.PostTweet(alice.ID, "tweet 4")
	c.Assert(err, qt.IsNil)
	feed, err = svc.GetUserFeed(alice.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(feed, qt.HasLen, 4)
	c.Assert(feed[0].Tweet, qt.Equals, "tweet 4")
}

func TestGetUserFeedEmpty(t *testing.T) {
	c := qt.New(t)
	svc := services.NewTweetService(newTestDB(t))

	// Unknown user is not an error, just an empty feed.
	feed, err := svc.GetUserFeed(99)
	c.Assert(err, qt.IsNil)
	c.Assert(feed, qt.HasLen, 0)
}

func TestSearchByKeyword(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	alice := fixtureUser(t, db, "alice")
	svc := services.NewTweetService(db)

	for _, body := range []string{
		"gophers love testing",
		"cats are great",
		"testing in production",
	} {
		_, err := svc.PostTweet(alice.ID, body)
		c.Assert(err, qt.IsNil)
	}

	// Matches are full-text, ordered by recency.
	tweets, err := svc.SearchByKeyword("testing", 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(tweets), qt.DeepEquals, []string{"testing in production", "gophers love testing"})

	// Any keyword matches, not all.
	tweets, err = svc.SearchByKeyword("love cats", 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(tweets, qt.HasLen, 2)

	// No substring matching: "test" is not a token of these bodies.
	tweets, err = svc.SearchByKeyword("test", 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(tweets, qt.HasLen, 0)

	// FTS5 operators in the input are literal text, not query syntax.
	_, err = svc.SearchByKeyword(`testing AND (NOT "cats`, 0, 0)
	c.Assert(err, qt.IsNil)
}

func TestSearchByKeywordPagination(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	alice := fixtureUser(t, db, "alice")
	svc := services.NewTweetService(db)

	for i := 1; i <= 5; i++ {
		_, err := svc.PostTweet(alice.ID, fmt.Sprintf("pagination post %d", i))
		c.Assert(err, qt.IsNil)
	}

	tweets, err := svc.SearchByKeyword("pagination", 2, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(tweets), qt.DeepEquals, []string{"pagination post 5", "pagination post 4"})

	tweets, err = svc.SearchByKeyword("pagination", 2, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(tweets), qt.DeepEquals, []string{"pagination post 3", "pagination post 2"})

	tweets, err = svc.SearchByKeyword("pagination", 2, 4)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(tweets), qt.DeepEquals, []string{"pagination post 1"})
}

func TestSearchByKeywordRequiresKeywords(t *testing.T) {
	c := qt.New(t)
	svc := services.NewTweetService(newTestDB(t))

	_, err := svc.SearchByKeyword("   ", 0, 0)
	c.Assert(err, qt.ErrorIs, services.ErrMissingFields)
}

func TestSearchByHashtagBoundaries(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	alice := fixtureUser(t, db, "alice")
	svc := services.NewTweetService(db)

	for _, body := range []string{
		"hello #tag",          // match: leading whitespace, end of body
		"#tag world",          // match: start of body
		"#tagxyz boundary",    // no match: trailing boundary missing
		"mid#tag word",        // no match: leading boundary missing
		"punctuated #tag, ok", // match: trailing punctuation is a boundary
	} {
		_, err := svc.PostTweet(alice.ID, body)
		c.Assert(err, qt.IsNil)
	}

	tweets, err := svc.SearchByHashtag("tag", 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(tweets), qt.DeepEquals, []string{
		"punctuated #tag, ok",
		"#tag world",
		"hello #tag",
	})

	// Regexp metacharacters in the tag are quoted, not interpreted.
	tweets, err = svc.SearchByHashtag("t.g", 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(tweets, qt.HasLen, 0)
}

func TestSearchByHashtagPagination(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	alice := fixtureUser(t, db, "alice")
	svc := services.NewTweetService(db)

	for i := 1; i <= 4; i++ {
		_, err := svc.PostTweet(alice.ID, fmt.Sprintf("post %d #go", i))
		c.Assert(err, qt.IsNil)
	}

	tweets, err := svc.SearchByHashtag("go", 2, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(bodies(tweets), qt.DeepEquals, []string{"post 3 #go", "post 2 #go"})
}
