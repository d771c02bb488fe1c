// Package messages implements direct messaging between two users:
// sending with snapshot semantics and dialog retrieval with
// write-on-read marking.
package messages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/socialgram/socialgram-server/internal/apierr"
	"github.com/socialgram/socialgram-server/internal/i18n"
	"github.com/socialgram/socialgram-server/internal/store"
)

// MaxTextLength is the upper bound on a message body, in characters.
const MaxTextLength = 255

// Service provides direct message business logic.
type Service struct {
	store store.Store
}

// New creates a new message service.
func New(st store.Store) *Service {
	return &Service{
		store: st,
	}
}

// SendInput carries the client-supplied fields of a send request.
type SendInput struct {
	AuthorID          int64
	AuthorNickname    string
	RecipientID       int64
	RecipientNickname string
	Text              string
}

// Send validates the input against live user records and persists a new
// message snapshotting both parties' nickname and avatar. The requester may
// only send as themselves. The first failed check wins; nothing is written
// on failure.
func (s *Service) Send(ctx context.Context, in SendInput, requesterID int64, lang string) (*store.Message, string, error) {
	lang = i18n.Normalize(lang)

	if requesterID != in.AuthorID {
		return nil, "", apierr.Forbidden(i18n.T(lang, i18n.KeyForbidden))
	}

	if in.AuthorID == 0 || in.RecipientID == 0 || in.AuthorNickname == "" || in.RecipientNickname == "" || in.Text == "" {
		return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeyMessageFieldsEmpty))
	}
	if utf8.RuneCountInString(in.Text) > MaxTextLength {
		return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeyMessageTooLong))
	}

	author, err := s.store.GetUserByID(ctx, in.AuthorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeySenderNotFound))
		}
		return nil, "", fmt.Errorf("load author: %w", err)
	}
	recipient, err := s.store.GetUserByID(ctx, in.RecipientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeyRecipientNotFound))
		}
		return nil, "", fmt.Errorf("load recipient: %w", err)
	}

	if author.Nickname != in.AuthorNickname {
		return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeySenderMismatch))
	}
	if recipient.Nickname != in.RecipientNickname {
		return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeyRecipientMismatch))
	}

	msg := &store.Message{
		CreatedAt:         strconv.FormatInt(time.Now().UnixMilli(), 10),
		Text:              in.Text,
		AuthorID:          author.ID,
		AuthorNickname:    author.Nickname,
		RecipientID:       recipient.ID,
		RecipientNickname: recipient.Nickname,
		AuthorAvatar:      author.Avatar,
		RecipientAvatar:   recipient.Avatar,
		Read:              false,
	}

	saved, err := s.store.SaveMessage(ctx, msg)
	if err != nil {
		return nil, "", fmt.Errorf("save message: %w", err)
	}

	return saved, i18n.T(lang, i18n.KeyMessageSent), nil
}

// DialogMessages retrieves the dialog between userID and interlocutorID for
// the requester, who must be userID. Every returned message addressed to
// userID is flipped to read as a side effect; calling twice yields the same
// final read state.
//
// The retrieval filter matches messages where either party column equals
// either id. It is intentionally not scoped to the joint pair.
func (s *Service) DialogMessages(ctx context.Context, userID, interlocutorID, requesterID int64, lang string) ([]*store.Message, string, error) {
	lang = i18n.Normalize(lang)

	if requesterID != userID {
		return nil, "", apierr.Forbidden(i18n.T(lang, i18n.KeyForbidden))
	}

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeySenderNotFound))
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if _, err := s.store.GetUserByID(ctx, interlocutorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apierr.BadRequest(i18n.T(lang, i18n.KeyRecipientNotFound))
		}
		return nil, "", fmt.Errorf("load interlocutor: %w", err)
	}

	msgs, err := s.store.ListDialogMessages(ctx, userID, interlocutorID)
	if err != nil {
		return nil, "", fmt.Errorf("list dialog messages: %w", err)
	}

	var unreadIDs []int64
	for _, msg := range msgs {
		if msg.RecipientID == userID && !msg.Read {
			unreadIDs = append(unreadIDs, msg.ID)
			msg.Read = true
		}
	}
	if err := s.store.MarkMessagesRead(ctx, unreadIDs); err != nil {
		return nil, "", fmt.Errorf("mark messages read: %w", err)
	}

	return msgs, i18n.T(lang, i18n.KeyMessagesReceived), nil
}
