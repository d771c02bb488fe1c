package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/socialgram/socialgram-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	nickname      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	age           INTEGER,
	country       TEXT,
	city          TEXT,
	first_name    TEXT,
	last_name     TEXT,
	avatar        TEXT,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at         TEXT NOT NULL,
	text               TEXT NOT NULL,
	author_id          INTEGER NOT NULL,
	author_nickname    TEXT NOT NULL,
	recipient_id       INTEGER NOT NULL,
	recipient_nickname TEXT NOT NULL,
	author_avatar      TEXT,
	recipient_avatar   TEXT,
	read               BOOLEAN NOT NULL DEFAULT 0,
	FOREIGN KEY (author_id) REFERENCES users(id),
	FOREIGN KEY (recipient_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS posts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL,
	text       TEXT NOT NULL,
	image      TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS comments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id    INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	text       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (post_id) REFERENCES posts(id),
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS likes (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	UNIQUE (post_id, user_id),
	FOREIGN KEY (post_id) REFERENCES posts(id),
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_messages_author ON messages(author_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function after the schema.
// Useful for tests to seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, nickname, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (email, nickname, password_hash, role)
		VALUES (?, ?, ?, 'USER')
	`
	result, err := s.db.ExecContext(ctx, query, email, nickname, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

const userColumns = `id, email, nickname, password_hash, role, age, country, city, first_name, last_name, avatar, created_at`

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var user store.User
	var age sql.NullInt64
	var country, city, firstName, lastName, avatar sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.Role,
		&age,
		&country,
		&city,
		&firstName,
		&lastName,
		&avatar,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if age.Valid {
		user.Age = &age.Int64
	}
	if country.Valid {
		user.Country = &country.String
	}
	if city.Valid {
		user.City = &city.String
	}
	if firstName.Valid {
		user.FirstName = &firstName.String
	}
	if lastName.Valid {
		user.LastName = &lastName.String
	}
	if avatar.Valid {
		user.Avatar = &avatar.String
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByNickname retrieves a user by nickname.
func (s *SQLiteStore) GetUserByNickname(ctx context.Context, nickname string) (*store.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE nickname = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, nickname))
}

// ==== MessageStore implementation ====

// SaveMessage persists a message and returns it with the assigned ID.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) (*store.Message, error) {
	query := `
		INSERT INTO messages (created_at, text, author_id, author_nickname, recipient_id, recipient_nickname, author_avatar, recipient_avatar, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		msg.CreatedAt,
		msg.Text,
		msg.AuthorID,
		msg.AuthorNickname,
		msg.RecipientID,
		msg.RecipientNickname,
		nullable(msg.AuthorAvatar),
		nullable(msg.RecipientAvatar),
		msg.Read,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	saved := *msg
	saved.ID = id
	return &saved, nil
}

// ListDialogMessages retrieves all messages where either party column matches
// userID or interlocutorID, in insertion order. The filter deliberately does
// not require the pair to match jointly.
func (s *SQLiteStore) ListDialogMessages(ctx context.Context, userID, interlocutorID int64) ([]*store.Message, error) {
	query := `
		SELECT id, created_at, text, author_id, author_nickname, recipient_id, recipient_nickname, author_avatar, recipient_avatar, read
		FROM messages
		WHERE author_id IN (?, ?) OR recipient_id IN (?, ?)
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, interlocutorID, userID, interlocutorID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*store.Message
	for rows.Next() {
		var msg store.Message
		var authorAvatar, recipientAvatar sql.NullString
		if err := rows.Scan(
			&msg.ID,
			&msg.CreatedAt,
			&msg.Text,
			&msg.AuthorID,
			&msg.AuthorNickname,
			&msg.RecipientID,
			&msg.RecipientNickname,
			&authorAvatar,
			&recipientAvatar,
			&msg.Read,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if authorAvatar.Valid {
			msg.AuthorAvatar = &authorAvatar.String
		}
		if recipientAvatar.Valid {
			msg.RecipientAvatar = &recipientAvatar.String
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// MarkMessagesRead flips the read flag on the given message IDs.
func (s *SQLiteStore) MarkMessagesRead(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `UPDATE messages SET read = 1 WHERE id IN (` + placeholders + `)`

	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

// ==== PostStore implementation ====

// CreatePost persists a new post.
func (s *SQLiteStore) CreatePost(ctx context.Context, userID int64, text string, image *string) (*store.Post, error) {
	query := `
		INSERT INTO posts (user_id, text, image)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, userID, text, nullable(image))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetPostByID(ctx, id)
}

// GetPostByID retrieves a post by ID.
func (s *SQLiteStore) GetPostByID(ctx context.Context, id int64) (*store.Post, error) {
	query := `
		SELECT id, user_id, text, image, created_at
		FROM posts
		WHERE id = ?
	`
	var post store.Post
	var image sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Text,
		&image,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query post: %w", err)
	}

	if image.Valid {
		post.Image = &image.String
	}
	return &post, nil
}

// ListPosts retrieves all posts, newest first.
func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*store.Post, error) {
	query := `
		SELECT id, user_id, text, image, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*store.Post
	for rows.Next() {
		var post store.Post
		var image sql.NullString
		if err := rows.Scan(&post.ID, &post.UserID, &post.Text, &image, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if image.Valid {
			post.Image = &image.String
		}
		posts = append(posts, &post)
	}

	return posts, rows.Err()
}

// CreateComment persists a comment on a post.
func (s *SQLiteStore) CreateComment(ctx context.Context, postID, userID int64, text string) (*store.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, text)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, postID, userID, text)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	var comment store.Comment
	err = s.db.QueryRowContext(ctx,
		`SELECT id, post_id, user_id, text, created_at FROM comments WHERE id = ?`, id,
	).Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Text, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query comment: %w", err)
	}

	return &comment, nil
}

// ListComments retrieves comments for a post, oldest first.
func (s *SQLiteStore) ListComments(ctx context.Context, postID int64) ([]*store.Comment, error) {
	query := `
		SELECT id, post_id, user_id, text, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []*store.Comment
	for rows.Next() {
		var comment store.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// AddLike records a like; adding twice for the same pair is an error.
func (s *SQLiteStore) AddLike(ctx context.Context, postID, userID int64) error {
	query := `INSERT INTO likes (post_id, user_id) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// RemoveLike deletes a like if present.
func (s *SQLiteStore) RemoveLike(ctx context.Context, postID, userID int64) error {
	query := `DELETE FROM likes WHERE post_id = ? AND user_id = ?`
	if _, err := s.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// CountLikes returns the number of likes on a post.
func (s *SQLiteStore) CountLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
