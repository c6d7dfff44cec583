package memory

import "github.com/pawprint-social/backend/internal/repositories"

var (
	_ repositories.UserRepository         = (*UserRepository)(nil)
	_ repositories.PetRepository          = (*PetRepository)(nil)
	_ repositories.FollowRepository       = (*FollowRepository)(nil)
	_ repositories.PostRepository         = (*PostRepository)(nil)
	_ repositories.ReactionRepository     = (*ReactionRepository)(nil)
	_ repositories.CommentRepository      = (*CommentRepository)(nil)
	_ repositories.NotificationRepository = (*NotificationRepository)(nil)
	_ repositories.ChatRepository         = (*ChatRepository)(nil)
	_ repositories.StoryViewRepository    = (*StoryViewRepository)(nil)
	_ repositories.HealthRecordRepository = (*HealthRecordRepository)(nil)
)

// NewRepositories backs every repository with s
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		User:         NewUserRepository(s),
		Pet:          NewPetRepository(s),
		Follow:       NewFollowRepository(s),
		Post:         NewPostRepository(s),
		Reaction:     NewReactionRepository(s),
		Comment:      NewCommentRepository(s),
		Notification: NewNotificationRepository(s),
		Chat:         NewChatRepository(s),
		StoryView:    NewStoryViewRepository(s),
		HealthRecord: NewHealthRecordRepository(s),
	}
}
