//go:build integration

package repositories_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
	"github.com/pawprint-social/backend/internal/router"
	"github.com/pawprint-social/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	connStr := os.Getenv("POSTGRES_CONN_STR")
	if connStr == "" {
		t.Skip("POSTGRES_CONN_STR not set")
	}
	db, err := config.OpenPostgres(connStr)
	require.NoError(t, err)
	require.NoError(t, router.AutoMigrate(db))
	return db
}

func TestPostgresRoomPairingUnderConcurrency(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewPostgresChatRepository(db)
	ctx := context.Background()
	pet := models.PetActor(uuid.New())
	pro := models.ProfessionalActor(uuid.New())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := pet, pro
			if i%2 == 1 {
				a, b = pro, pet
			}
			ok, err := repo.CreateRoom(ctx, models.NewChatRoom(a, b))
			if assert.NoError(t, err) && ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, created)

	key, _, _ := models.PairKey(pro, pet)
	room, err := repo.GetRoomByPairKey(ctx, key)
	require.NoError(t, err)
	assert.True(t, room.Has(pet))
	assert.True(t, room.Has(pro))
}

func TestPostgresReactionUniqueness(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewPostgresReactionRepository(db)
	ctx := context.Background()
	postID := uuid.New()
	pet := models.PetActor(uuid.New())

	require.NoError(t, repo.CreateReaction(ctx, models.NewReaction(postID, pet, models.ReactionPaw)))
	err := repo.CreateReaction(ctx, models.NewReaction(postID, pet, models.ReactionHug))
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = repo.ReplaceReaction(ctx, postID, pet, models.ReactionTreat)
	require.NoError(t, err)
	mine, err := repo.GetMineByPostIDs(ctx, pet, []uuid.UUID{postID})
	require.NoError(t, err)
	assert.Equal(t, models.ReactionTreat, mine[postID])

	require.NoError(t, repo.DeleteReaction(ctx, postID, pet))
	_, err = repo.GetReaction(ctx, postID, pet)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func seedPet(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) uuid.UUID {
	t.Helper()
	pet := models.Pet{ID: uuid.New(), OwnerUserID: owner, Name: name, Species: "dog"}
	require.NoError(t, db.Create(&pet).Error)
	return pet.ID
}

func seedPost(t *testing.T, db *gorm.DB, petID uuid.UUID, postType models.PostType, createdAt time.Time, expiresAt *time.Time) uuid.UUID {
	t.Helper()
	post := models.Post{ID: uuid.New(), PetID: petID, Type: postType, MediaURL: "https://cdn.example.com/m.jpg", CreatedAt: createdAt, ExpiresAt: expiresAt}
	require.NoError(t, db.Create(&post).Error)
	return post.ID
}

func TestPostgresLatestActiveStoryPerPet(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewPostgresPostRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	owner := uuid.New()
	rex := seedPet(t, db, owner, "Rex")
	bolt := seedPet(t, db, owner, "Bolt")
	luna := seedPet(t, db, owner, "Luna")
	at := func(d time.Duration) time.Time { return now.Add(d) }
	expires := func(created time.Time) *time.Time { e := created.Add(24 * time.Hour); return &e }

	seedPost(t, db, rex, models.PostTypeStory, at(-3*time.Hour), expires(at(-3*time.Hour)))
	rexLatest := seedPost(t, db, rex, models.PostTypeStory, at(-time.Hour), expires(at(-time.Hour)))
	seedPost(t, db, rex, models.PostTypePost, at(-time.Minute), nil)
	boltLatest := seedPost(t, db, bolt, models.PostTypeStory, at(-2*time.Hour), expires(at(-2*time.Hour)))
	// only expired stories
	seedPost(t, db, luna, models.PostTypeStory, at(-30*time.Hour), expires(at(-30*time.Hour)))

	pets := []uuid.UUID{rex, bolt, luna}
	stories, err := repo.GetLatestActiveStories(ctx, pets, now, 0)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, rexLatest, stories[0].ID)
	assert.Equal(t, boltLatest, stories[1].ID)

	stories, err = repo.GetLatestActiveStories(ctx, pets, now, 1)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, rexLatest, stories[0].ID)

	stories, err = repo.GetLatestActiveStories(ctx, []uuid.UUID{}, now, 0)
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestPostgresFeedCursorPagesThroughTies(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewPostgresPostRepository(db)
	ctx := context.Background()
	pet := seedPet(t, db, uuid.New(), "Rex")
	at := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		seedPost(t, db, pet, models.PostTypePost, at, nil)
	}

	var seen []uuid.UUID
	var cursor *models.FeedCursor
	for pages := 0; pages < 4; pages++ {
		page, err := repo.GetPostsByPetIDs(ctx, []uuid.UUID{pet}, cursor, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, p := range page {
			seen = append(seen, p.ID)
		}
		next := models.CursorOf(page[len(page)-1])
		cursor = &next
	}
	assert.Len(t, seen, 3)
}

func TestPostgresDeleteCascade(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewPostgresPetRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	owner := models.User{ID: uuid.New(), FirebaseUID: "uid-" + uuid.NewString(), DisplayName: "Ana"}
	require.NoError(t, db.Create(&owner).Error)
	rex := seedPet(t, db, owner.ID, "Rex")
	bolt := seedPet(t, db, uuid.New(), "Bolt")
	require.NoError(t, db.Model(&owner).Update("selected_pet_id", rex).Error)
	rexActor, boltActor := models.PetActor(rex), models.PetActor(bolt)
	pro := models.ProfessionalActor(uuid.New())

	rexPost := seedPost(t, db, rex, models.PostTypePost, now, nil)
	boltPost := seedPost(t, db, bolt, models.PostTypePost, now, nil)
	expiresAt := now.Add(24 * time.Hour)
	rexStory := seedPost(t, db, rex, models.PostTypeStory, now, &expiresAt)

	chat := repositories.NewPostgresChatRepository(db)
	room := models.NewChatRoom(rexActor, pro)
	_, err := chat.CreateRoom(ctx, room)
	require.NoError(t, err)
	require.NoError(t, chat.CreateMessage(ctx, &models.ChatMessage{RoomID: room.ID, SenderID: rex, Message: "hello"}))
	rexID, boltID := rex, bolt
	rows := []any{
		models.NewFollow(boltActor, rex),
		models.NewFollow(rexActor, bolt),
		models.NewReaction(rexPost, boltActor, models.ReactionPaw),
		models.NewReaction(boltPost, rexActor, models.ReactionHug),
		&models.Comment{PostID: boltPost, PetID: &rexID, Text: "hi"},
		models.NewStoryView(rexStory, boltActor),
		&models.Notification{PetID: &boltID, RelatedPetID: &rexID, Type: models.NotificationFollow, Message: "Rex followed you"},
	}
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}

	require.NoError(t, repo.DeleteCascade(ctx, rex))

	count := func(model any, query string, args ...any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&models.Pet{}, "id = ?", rex))
	assert.Zero(t, count(&models.Post{}, "pet_id = ?", rex))
	assert.Zero(t, count(&models.Follow{}, "target_pet_id = ? OR follower_id = ?", rex, rex))
	assert.Zero(t, count(&models.Reaction{}, "post_id = ? OR pet_id = ?", rexPost, rex))
	assert.Zero(t, count(&models.Comment{}, "pet_id = ?", rex))
	assert.Zero(t, count(&models.StoryView{}, "story_id = ?", rexStory))
	assert.Zero(t, count(&models.Notification{}, "related_pet_id = ?", rex))
	assert.Zero(t, count(&models.ChatRoom{}, "id = ?", room.ID))
	assert.Zero(t, count(&models.ChatMessage{}, "room_id = ?", room.ID))
	assert.Equal(t, int64(1), count(&models.Post{}, "id = ?", boltPost))
	assert.Equal(t, int64(1), count(&models.Pet{}, "id = ?", bolt))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", owner.ID).Error)
	assert.Nil(t, reloaded.SelectedPetID)

	assert.ErrorIs(t, repo.DeleteCascade(ctx, rex), models.ErrNotFound)
}
