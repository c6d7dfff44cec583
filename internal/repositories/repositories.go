package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Repositories bundles every store the services read and write
type Repositories struct {
	User         UserRepository
	Pet          PetRepository
	Follow       FollowRepository
	Post         PostRepository
	Reaction     ReactionRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Chat         ChatRepository
	StoryView    StoryViewRepository
	HealthRecord HealthRecordRepository
}

// NewRepositories wires the Postgres tables and the Mongo health records
func NewRepositories(pgdb *gorm.DB, mongoDB *mongo.Database) *Repositories {
	return &Repositories{
		User:         NewPostgresUserRepository(pgdb),
		Pet:          NewPostgresPetRepository(pgdb),
		Follow:       NewPostgresFollowRepository(pgdb),
		Post:         NewPostgresPostRepository(pgdb),
		Reaction:     NewPostgresReactionRepository(pgdb),
		Comment:      NewPostgresCommentRepository(pgdb),
		Notification: NewPostgresNotificationRepository(pgdb),
		Chat:         NewPostgresChatRepository(pgdb),
		StoryView:    NewStoryViewRepository(pgdb),
		HealthRecord: NewMongoHealthRecordRepository(mongoDB),
	}
}
