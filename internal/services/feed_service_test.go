package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPostIDs(items []models.FeedItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestFeedWithoutFollowsShowsOwnPosts(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	f.post(bolt, "not followed")
	first := f.post(rex, "first")
	second := f.post(rex, "second")

	feed, err := f.svc.Feed.Feed(f.ctx, rex, nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, feedPostIDs(feed))
}

func TestFeedIncludesFollowedPets(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	luna := f.pet(f.guardian("cy"), "Luna")
	_, err := f.svc.Follows.Follow(f.ctx, rex, bolt.ID)
	require.NoError(t, err)

	a := f.post(bolt, "a")
	f.post(luna, "b")
	c := f.post(rex, "c")
	story := f.story(bolt)

	feed, err := f.svc.Feed.Feed(f.ctx, rex, nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID, a.ID}, feedPostIDs(feed))
	assert.NotContains(t, feedPostIDs(feed), story.ID)
}

func TestProfessionalFeedShowsEveryPost(t *testing.T) {
	f := newFixture(t)
	pro := f.professional("Dr. Vet")
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	a := f.post(rex, "a")
	b := f.post(bolt, "b")

	feed, err := f.svc.Feed.Feed(f.ctx, pro, nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, feedPostIDs(feed))
}

func TestFeedItemsCarryAuthorAndLedger(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	post := f.post(rex, "walk")

	_, err := f.svc.Ledger.ToggleReaction(f.ctx, bolt, post.ID, models.ReactionTreat)
	require.NoError(t, err)
	_, err = f.svc.Ledger.ToggleReaction(f.ctx, rex, post.ID, models.ReactionPaw)
	require.NoError(t, err)
	_, err = f.svc.Ledger.AddComment(f.ctx, bolt, post.ID, "nice")
	require.NoError(t, err)

	item, err := f.svc.Feed.Post(f.ctx, rex, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", item.Author.Name)
	assert.Equal(t, int64(1), item.Reactions[models.ReactionTreat])
	assert.Equal(t, int64(1), item.Reactions[models.ReactionPaw])
	assert.Equal(t, int64(1), item.CommentCount)
	require.NotNil(t, item.MyReaction)
	assert.Equal(t, models.ReactionPaw, *item.MyReaction)

	feed, err := f.svc.Feed.Feed(f.ctx, rex, nil)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, item.Reactions, feed[0].Reactions)
}

func TestFeedPagesWithBeforeCursor(t *testing.T) {
	f := newFixture(t)
	feeds := services.NewFeedService(f.repos.Post, f.repos.Pet, f.repos.Follow, f.repos.Reaction, f.repos.Comment, 2)
	rex := f.pet(f.guardian("ana"), "Rex")

	var posts []*models.Post
	for _, d := range []string{"1", "2", "3", "4", "5"} {
		posts = append(posts, f.post(rex, d))
	}

	page, err := feeds.Feed(f.ctx, rex, nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{posts[4].ID, posts[3].ID}, feedPostIDs(page))

	cursor := models.CursorOf(page[len(page)-1].Post)
	page, err = feeds.Feed(f.ctx, rex, &cursor)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{posts[2].ID, posts[1].ID}, feedPostIDs(page))

	cursor = models.CursorOf(page[len(page)-1].Post)
	page, err = feeds.Feed(f.ctx, rex, &cursor)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{posts[0].ID}, feedPostIDs(page))
}

func TestFeedPagesThroughTiedTimestamps(t *testing.T) {
	f := newFixture(t)
	feeds := services.NewFeedService(f.repos.Post, f.repos.Pet, f.repos.Follow, f.repos.Reaction, f.repos.Comment, 2)
	rex := f.pet(f.guardian("ana"), "Rex")
	older := f.post(rex, "older")

	// three posts share one instant
	var tied []uuid.UUID
	for _, d := range []string{"a", "b", "c"} {
		post, err := feeds.CreatePost(f.ctx, rex, models.CreatePostRequest{Description: d, MediaURL: "https://cdn.example.com/" + d + ".jpg"})
		require.NoError(t, err)
		tied = append(tied, post.ID)
	}

	var seen []uuid.UUID
	var cursor *models.FeedCursor
	for pages := 0; pages < 5; pages++ {
		page, err := feeds.Feed(f.ctx, rex, cursor)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		seen = append(seen, feedPostIDs(page)...)
		next := models.CursorOf(page[len(page)-1].Post)
		cursor = &next
	}

	require.Len(t, seen, 4)
	assert.ElementsMatch(t, tied, seen[:3])
	assert.Equal(t, older.ID, seen[3])
}

func TestCreatePostRules(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	pro := f.professional("Dr. Vet")

	_, err := f.svc.Feed.CreatePost(f.ctx, pro, models.CreatePostRequest{MediaURL: "https://cdn.example.com/a.jpg"})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.svc.Feed.CreatePost(f.ctx, rex, models.CreatePostRequest{Description: "no media"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.Feed.Post(f.ctx, rex, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
