package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Role defines a user's access level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered user.
type User struct {
	ID           int64
	Email        string
	Nickname     string
	PasswordHash string
	Role         Role
	Age          *int64
	Country      *string
	City         *string
	FirstName    *string
	LastName     *string
	Avatar       *string
	CreatedAt    time.Time
}

// Message represents a persisted direct message between two users.
// Nickname and avatar columns are snapshots taken at send time and are
// never synced with the live user records afterward.
type Message struct {
	ID                int64
	CreatedAt         string // epoch millis, string-encoded
	Text              string
	AuthorID          int64
	AuthorNickname    string
	RecipientID       int64
	RecipientNickname string
	AuthorAvatar      *string
	RecipientAvatar   *string
	Read              bool
}

// Post represents a user's feed post.
type Post struct {
	ID        int64
	UserID    int64
	Text      string
	Image     *string
	CreatedAt time.Time
}

// Comment represents a comment on a post.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// Like represents a user's like on a post.
type Like struct {
	ID     int64
	PostID int64
	UserID int64
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, email, nickname, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByNickname retrieves a user by nickname.
	GetUserByNickname(ctx context.Context, nickname string) (*User, error)
}

// MessageStore handles direct message persistence.
type MessageStore interface {
	// SaveMessage persists a message and returns it with the assigned ID.
	SaveMessage(ctx context.Context, msg *Message) (*Message, error)

	// ListDialogMessages retrieves all messages where either party column
	// matches userID or interlocutorID, in insertion order.
	ListDialogMessages(ctx context.Context, userID, interlocutorID int64) ([]*Message, error)

	// MarkMessagesRead flips the read flag on the given message IDs.
	MarkMessagesRead(ctx context.Context, ids []int64) error
}

// PostStore handles post, comment, and like persistence.
type PostStore interface {
	// CreatePost persists a new post.
	CreatePost(ctx context.Context, userID int64, text string, image *string) (*Post, error)

	// ListPosts retrieves all posts, newest first.
	ListPosts(ctx context.Context) ([]*Post, error)

	// GetPostByID retrieves a post by ID.
	GetPostByID(ctx context.Context, id int64) (*Post, error)

	// CreateComment persists a comment on a post.
	CreateComment(ctx context.Context, postID, userID int64, text string) (*Comment, error)

	// ListComments retrieves comments for a post, oldest first.
	ListComments(ctx context.Context, postID int64) ([]*Comment, error)

	// AddLike records a like; adding twice for the same pair is an error.
	AddLike(ctx context.Context, postID, userID int64) error

	// RemoveLike deletes a like if present.
	RemoveLike(ctx context.Context, postID, userID int64) error

	// CountLikes returns the number of likes on a post.
	CountLikes(ctx context.Context, postID int64) (int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore
	PostStore

	// Close closes the underlying database connection.
	Close() error
}
