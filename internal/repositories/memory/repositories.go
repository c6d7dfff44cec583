package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
)

func notFound(op string) error { return fmt.Errorf("%s: %w", op, models.ErrNotFound) }
func conflict(op string) error { return fmt.Errorf("%s: %w", op, models.ErrConflict) }

// ---- users ----

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.FirebaseUID == user.FirebaseUID {
			return conflict("create user")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.AccountType == "" {
		user.AccountType = models.AccountUser
	}
	r.s.stamp(&user.CreatedAt)
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &u, nil
}

func (r *UserRepository) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.FirebaseUID == firebaseUID {
			return &u, nil
		}
	}
	return nil, notFound("get user by firebase uid")
}

func (r *UserRepository) SetSelectedPet(_ context.Context, userID uuid.UUID, petID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return notFound("select pet")
	}
	u.SelectedPetID = petID
	r.s.users[userID] = u
	return nil
}

// ---- pets ----

type PetRepository struct{ s *Store }

func NewPetRepository(s *Store) *PetRepository { return &PetRepository{s: s} }

func (r *PetRepository) CreatePet(_ context.Context, pet *models.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	if _, ok := r.s.pets[pet.ID]; ok {
		return conflict("create pet")
	}
	r.s.stamp(&pet.CreatedAt)
	pet.UpdatedAt = pet.CreatedAt
	r.s.pets[pet.ID] = *pet
	return nil
}

func (r *PetRepository) GetPetByID(_ context.Context, id uuid.UUID) (*models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pets[id]
	if !ok {
		return nil, notFound("get pet")
	}
	return &p, nil
}

func (r *PetRepository) GetPetsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[uuid.UUID]models.Pet, len(ids))
	for _, id := range ids {
		if p, ok := r.s.pets[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *PetRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var pets []models.Pet
	for _, p := range r.s.pets {
		if p.OwnerUserID == ownerID {
			pets = append(pets, p)
		}
	}
	sort.Slice(pets, func(i, j int) bool {
		if pets[i].CreatedAt.Equal(pets[j].CreatedAt) {
			return pets[i].ID.String() < pets[j].ID.String()
		}
		return pets[i].CreatedAt.Before(pets[j].CreatedAt)
	})
	return pets, nil
}

// DeleteCascade holds the write lock for the whole cleanup, so no reader
// observes a partial delete.
func (r *PetRepository) DeleteCascade(_ context.Context, id uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[id]; !ok {
		return notFound("delete pet")
	}
	pet := models.PetActor(id)

	owned := map[uuid.UUID]bool{}
	for pid, p := range s.posts {
		if p.PetID == id {
			owned[pid] = true
		}
	}
	for k := range s.views {
		if owned[k.storyID] || k.viewer == pet {
			delete(s.views, k)
		}
	}
	for k, re := range s.reactions {
		if owned[re.PostID] || k.actor == pet {
			delete(s.reactions, k)
		}
	}
	s.comments = slices.DeleteFunc(s.comments, func(c models.Comment) bool {
		return owned[c.PostID] || c.Actor() == pet
	})
	s.notifications = slices.DeleteFunc(s.notifications, func(n models.Notification) bool {
		return n.Owner() == pet || n.Related() == pet
	})
	for k := range s.follows {
		if k.target == id || k.follower == pet {
			delete(s.follows, k)
		}
	}
	rooms := map[uuid.UUID]bool{}
	for rid, room := range s.rooms {
		if room.Has(pet) {
			rooms[rid] = true
			delete(s.roomsByPair, room.PairKey)
			delete(s.rooms, rid)
		}
	}
	s.messages = slices.DeleteFunc(s.messages, func(m models.ChatMessage) bool { return rooms[m.RoomID] })
	for pid := range owned {
		delete(s.posts, pid)
		delete(s.postSeq, pid)
	}
	for uid, u := range s.users {
		if u.SelectedPetID != nil && *u.SelectedPetID == id {
			u.SelectedPetID = nil
			s.users[uid] = u
		}
	}
	delete(s.pets, id)
	return nil
}

// ---- follows ----

type FollowRepository struct{ s *Store }

func NewFollowRepository(s *Store) *FollowRepository { return &FollowRepository{s: s} }

func (r *FollowRepository) CreateFollow(_ context.Context, follow *models.Follow) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := followKey{follower: follow.Follower(), target: follow.TargetPetID}
	if _, ok := r.s.follows[k]; ok {
		return false, nil
	}
	follow.ID = uint(r.s.nextSeq())
	r.s.stamp(&follow.CreatedAt)
	r.s.follows[k] = *follow
	return true, nil
}

func (r *FollowRepository) DeleteFollow(_ context.Context, follower models.Actor, targetPetID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.follows, followKey{follower: follower, target: targetPetID})
	return nil
}

func (r *FollowRepository) IsFollowing(_ context.Context, follower models.Actor, targetPetID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.follows[followKey{follower: follower, target: targetPetID}]
	return ok, nil
}

func (r *FollowRepository) GetFollowers(_ context.Context, petID uuid.UUID) ([]models.Actor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var edges []models.Follow
	for k, f := range r.s.follows {
		if k.target == petID {
			edges = append(edges, f)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	actors := make([]models.Actor, len(edges))
	for i := range edges {
		actors[i] = edges[i].Follower()
	}
	return actors, nil
}

func (r *FollowRepository) GetFollowingPetIDs(_ context.Context, follower models.Actor) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []uuid.UUID
	for k := range r.s.follows {
		if k.follower == follower {
			ids = append(ids, k.target)
		}
	}
	return ids, nil
}

func (r *FollowRepository) GetFollowersCount(ctx context.Context, petID uuid.UUID) (int64, error) {
	actors, err := r.GetFollowers(ctx, petID)
	return int64(len(actors)), err
}

func (r *FollowRepository) GetFollowingCount(ctx context.Context, follower models.Actor) (int64, error) {
	ids, err := r.GetFollowingPetIDs(ctx, follower)
	return int64(len(ids)), err
}

// ---- posts ----

type PostRepository struct{ s *Store }

func NewPostRepository(s *Store) *PostRepository { return &PostRepository{s: s} }

func (r *PostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	r.s.stamp(&post.CreatedAt)
	r.s.posts[post.ID] = *post
	r.s.postSeq[post.ID] = r.s.nextSeq()
	return nil
}

func (r *PostRepository) GetPostByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, notFound("get post")
	}
	return &p, nil
}

// newestFirst sorts by created_at desc with insertion order as tie-break
func (r *PostRepository) newestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return r.s.postSeq[posts[i].ID] > r.s.postSeq[posts[j].ID]
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func (r *PostRepository) feed(match func(models.Post) bool, before *models.FeedCursor, limit int) []models.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	posts := []models.Post{}
	for _, p := range r.s.posts {
		if p.Type != models.PostTypePost || !match(p) {
			continue
		}
		if before != nil && !before.Admits(p) {
			continue
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return models.FeedOrder(posts[i], posts[j]) })
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

func (r *PostRepository) GetPostsByPetIDs(_ context.Context, petIDs []uuid.UUID, before *models.FeedCursor, limit int) ([]models.Post, error) {
	return r.feed(func(p models.Post) bool { return slices.Contains(petIDs, p.PetID) }, before, limit), nil
}

func (r *PostRepository) GetAllPosts(_ context.Context, before *models.FeedCursor, limit int) ([]models.Post, error) {
	return r.feed(func(models.Post) bool { return true }, before, limit), nil
}

func (r *PostRepository) GetLatestActiveStories(_ context.Context, petIDs []uuid.UUID, now time.Time, limit int) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	latest := map[uuid.UUID]models.Post{}
	for _, p := range r.s.posts {
		if !p.IsStory() || p.Expired(now) {
			continue
		}
		if petIDs != nil && !slices.Contains(petIDs, p.PetID) {
			continue
		}
		cur, ok := latest[p.PetID]
		if !ok || p.CreatedAt.After(cur.CreatedAt) ||
			(p.CreatedAt.Equal(cur.CreatedAt) && r.s.postSeq[p.ID] > r.s.postSeq[cur.ID]) {
			latest[p.PetID] = p
		}
	}
	stories := make([]models.Post, 0, len(latest))
	for _, p := range latest {
		stories = append(stories, p)
	}
	r.newestFirst(stories)
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	return stories, nil
}

// ---- reactions ----

type ReactionRepository struct{ s *Store }

func NewReactionRepository(s *Store) *ReactionRepository { return &ReactionRepository{s: s} }

func (r *ReactionRepository) GetReaction(_ context.Context, postID uuid.UUID, actor models.Actor) (*models.Reaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	re, ok := r.s.reactions[reactionKey{postID, actor}]
	if !ok {
		return nil, notFound("get reaction")
	}
	return &re, nil
}

func (r *ReactionRepository) CreateReaction(_ context.Context, reaction *models.Reaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := reactionKey{reaction.PostID, reaction.Actor()}
	if _, ok := r.s.reactions[k]; ok {
		return conflict("create reaction")
	}
	reaction.ID = uint(r.s.nextSeq())
	r.s.stamp(&reaction.CreatedAt)
	r.s.reactions[k] = *reaction
	return nil
}

func (r *ReactionRepository) DeleteReaction(_ context.Context, postID uuid.UUID, actor models.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reactions, reactionKey{postID, actor})
	return nil
}

func (r *ReactionRepository) ReplaceReaction(_ context.Context, postID uuid.UUID, actor models.Actor, t models.ReactionType) (*models.Reaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reaction := models.NewReaction(postID, actor, t)
	reaction.ID = uint(r.s.nextSeq())
	r.s.stamp(&reaction.CreatedAt)
	r.s.reactions[reactionKey{postID, actor}] = *reaction
	return reaction, nil
}

func (r *ReactionRepository) GetCountsByPostIDs(_ context.Context, postIDs []uuid.UUID) (map[uuid.UUID]models.ReactionCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[uuid.UUID]models.ReactionCounts{}
	for k, re := range r.s.reactions {
		if !slices.Contains(postIDs, k.postID) {
			continue
		}
		if out[k.postID] == nil {
			out[k.postID] = models.ReactionCounts{}
		}
		out[k.postID][re.Type]++
	}
	return out, nil
}

func (r *ReactionRepository) GetMineByPostIDs(_ context.Context, actor models.Actor, postIDs []uuid.UUID) (map[uuid.UUID]models.ReactionType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[uuid.UUID]models.ReactionType{}
	for _, pid := range postIDs {
		if re, ok := r.s.reactions[reactionKey{pid, actor}]; ok {
			out[pid] = re.Type
		}
	}
	return out, nil
}

// ---- comments ----

type CommentRepository struct{ s *Store }

func NewCommentRepository(s *Store) *CommentRepository { return &CommentRepository{s: s} }

func (r *CommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = uint(r.s.nextSeq())
	r.s.stamp(&comment.CreatedAt)
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r *CommentRepository) GetCommentsByPostID(_ context.Context, postID uuid.UUID) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	comments := []models.Comment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *CommentRepository) GetCountsByPostIDs(_ context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[uuid.UUID]int64{}
	for _, c := range r.s.comments {
		if slices.Contains(postIDs, c.PostID) {
			out[c.PostID]++
		}
	}
	return out, nil
}

// ---- notifications ----

type NotificationRepository struct{ s *Store }

func NewNotificationRepository(s *Store) *NotificationRepository {
	return &NotificationRepository{s: s}
}

func (r *NotificationRepository) CreateNotification(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = uint(r.s.nextSeq())
	r.s.stamp(&n.CreatedAt)
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *NotificationRepository) GetByOwner(_ context.Context, owner models.Actor, page, limit int) ([]models.Notification, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var mine []models.Notification
	for _, n := range r.s.notifications {
		if n.Owner() == owner {
			mine = append(mine, n)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if mine[i].CreatedAt.Equal(mine[j].CreatedAt) {
			return mine[i].ID > mine[j].ID
		}
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	total := int64(len(mine))
	start := (page - 1) * limit
	if start >= len(mine) {
		return []models.Notification{}, total, nil
	}
	end := min(start+limit, len(mine))
	return mine[start:end], total, nil
}

func (r *NotificationRepository) GetUnreadCount(_ context.Context, owner models.Actor) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.Owner() == owner && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkAsRead(_ context.Context, owner models.Actor, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == id && r.s.notifications[i].Owner() == owner {
			r.s.notifications[i].IsRead = true
			return nil
		}
	}
	return notFound("mark read")
}

func (r *NotificationRepository) MarkAllAsRead(_ context.Context, owner models.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].Owner() == owner {
			r.s.notifications[i].IsRead = true
		}
	}
	return nil
}

// ---- chat ----

type ChatRepository struct{ s *Store }

func NewChatRepository(s *Store) *ChatRepository { return &ChatRepository{s: s} }

func (r *ChatRepository) GetRoomByPairKey(_ context.Context, pairKey string) (*models.ChatRoom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.roomsByPair[pairKey]
	if !ok {
		return nil, notFound("get room by pair")
	}
	room := r.s.rooms[id]
	return &room, nil
}

func (r *ChatRepository) GetRoomByID(_ context.Context, id uuid.UUID) (*models.ChatRoom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, notFound("get room")
	}
	return &room, nil
}

func (r *ChatRepository) CreateRoom(_ context.Context, room *models.ChatRoom) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roomsByPair[room.PairKey]; ok {
		return false, nil
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	r.s.stamp(&room.CreatedAt)
	r.s.rooms[room.ID] = *room
	r.s.roomsByPair[room.PairKey] = room.ID
	return true, nil
}

func (r *ChatRepository) GetRoomsFor(_ context.Context, party models.Actor) ([]models.ChatRoom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rooms := []models.ChatRoom{}
	for _, room := range r.s.rooms {
		if room.Has(party) {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return strings.Compare(rooms[i].PairKey, rooms[j].PairKey) < 0
		}
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (r *ChatRepository) CreateMessage(_ context.Context, m *models.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Seq = r.s.nextSeq()
	r.s.stamp(&m.CreatedAt)
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r *ChatRepository) GetMessages(_ context.Context, roomID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msgs := []models.ChatMessage{}
	for _, m := range r.s.messages {
		if m.RoomID == roomID {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].Seq < msgs[j].Seq
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// ---- story views ----

type StoryViewRepository struct{ s *Store }

func NewStoryViewRepository(s *Store) *StoryViewRepository { return &StoryViewRepository{s: s} }

func (r *StoryViewRepository) RecordView(_ context.Context, view *models.StoryView) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := viewKey{view.StoryID, view.Viewer()}
	if _, ok := r.s.views[k]; ok {
		return false, nil
	}
	view.ID = uint(r.s.nextSeq())
	r.s.stamp(&view.CreatedAt)
	r.s.views[k] = *view
	return true, nil
}

func (r *StoryViewRepository) CountViews(_ context.Context, storyID uuid.UUID, onlyProfessional bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for k := range r.s.views {
		if k.storyID == storyID && (!onlyProfessional || k.viewer.IsProfessional()) {
			count++
		}
	}
	return count, nil
}

func (r *StoryViewRepository) GetViews(_ context.Context, storyID uuid.UUID) ([]models.StoryView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	views := []models.StoryView{}
	for k, v := range r.s.views {
		if k.storyID == storyID {
			views = append(views, v)
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views, nil
}

// ---- health records ----

type HealthRecordRepository struct{ s *Store }

func NewHealthRecordRepository(s *Store) *HealthRecordRepository {
	return &HealthRecordRepository{s: s}
}

func (r *HealthRecordRepository) GetRecordsByPetID(_ context.Context, petID string) ([]models.HealthRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	records := []models.HealthRecord{}
	for _, rec := range r.s.health {
		if rec.PetID == petID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].OccurredAt.Before(records[j].OccurredAt) })
	return records, nil
}

func (r *HealthRecordRepository) DeleteRecordsByPetID(_ context.Context, petID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.health = slices.DeleteFunc(r.s.health, func(rec models.HealthRecord) bool { return rec.PetID == petID })
	return nil
}
