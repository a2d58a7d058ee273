// Package model contains the relational rows read from Postgres and the wide
// records written to Scylla.
package model

import "time"

// Note represents a post as stored in the relational "note" table.
// Nullable columns are pointers; array columns are nil when NULL.
type Note struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"createdAt"`
	UserID               string    `json:"userId"`
	UserHost             *string   `json:"userHost"`
	Visibility           string    `json:"visibility"`
	Text                 *string   `json:"text"`
	Name                 *string   `json:"name"`
	CW                   *string   `json:"cw"`
	LocalOnly            bool      `json:"localOnly"`
	RenoteCount          int       `json:"renoteCount"`
	RepliesCount         int       `json:"repliesCount"`
	URI                  *string   `json:"uri"`
	URL                  *string   `json:"url"`
	Score                int       `json:"score"`
	FileIDs              []string  `json:"fileIds"`
	VisibleUserIDs       []string  `json:"visibleUserIds"`
	Mentions             []string  `json:"mentions"`
	MentionedRemoteUsers string    `json:"mentionedRemoteUsers"`
	Emojis               []string  `json:"emojis"`
	Tags                 []string  `json:"tags"`
	HasPoll              bool      `json:"hasPoll"`
	ThreadID             *string   `json:"threadId"`
	ChannelID            *string   `json:"channelId"`
	ReplyID              *string   `json:"replyId"`
	ReplyUserID          *string   `json:"replyUserId"`
	ReplyUserHost        *string   `json:"replyUserHost"`
	RenoteID             *string   `json:"renoteId"`
	RenoteUserID         *string   `json:"renoteUserId"`
	RenoteUserHost       *string   `json:"renoteUserHost"`
	// Reactions is the raw jsonb reaction map, e.g. {"👍": 3, ":blob@.:": 1}.
	Reactions []byte     `json:"reactions"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// NoteEdit is one row of "note_edit": a previous revision of a note.
type NoteEdit struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	Text      *string   `json:"text"`
	CW        *string   `json:"cw"`
	FileIDs   []string  `json:"fileIds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Poll is the "poll" row attached to a note with hasPoll = true.
type Poll struct {
	NoteID    string     `json:"noteId"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Multiple  bool       `json:"multiple"`
	Choices   []string   `json:"choices"`
}

// DriveFile is the subset of "drive_file" that survives denormalization.
type DriveFile struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"name"`
	Comment      *string   `json:"comment"`
	Blurhash     *string   `json:"blurhash"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	IsSensitive  bool      `json:"isSensitive"`
	IsLink       bool      `json:"isLink"`
	MD5          string    `json:"md5"`
	Size         int       `json:"size"`
	// Properties is the opaque jsonb bag holding width/height among others.
	Properties []byte `json:"properties"`
}

// NoteReaction is one row of "note_reaction".
type NoteReaction struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
	NoteID    string    `json:"noteId"`
	Reaction  string    `json:"reaction"`
}

// Emoji is a custom emoji row referenced by a reaction such as ":blob@host:".
type Emoji struct {
	Name   string  `json:"name"`
	Host   *string `json:"host"`
	URL    string  `json:"url"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

// PollVote aggregates every "poll_vote" row one user cast on one poll.
type PollVote struct {
	NoteID    string    `json:"noteId"`
	UserID    string    `json:"userId"`
	UserHost  *string   `json:"userHost"`
	Choices   []int     `json:"choices"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is one row of "notification" joined with the notifier's host.
type Notification struct {
	ID                    string    `json:"id"`
	CreatedAt             time.Time `json:"createdAt"`
	NotifieeID            string    `json:"notifieeId"`
	NotifierID            *string   `json:"notifierId"`
	NotifierHost          *string   `json:"notifierHost"`
	Type                  string    `json:"type"`
	NoteID                *string   `json:"noteId"`
	FollowRequestID       *string   `json:"followRequestId"`
	UserGroupInvitationID *string   `json:"userGroupInvitationId"`
	Reaction              *string   `json:"reaction"`
	Choice                *int      `json:"choice"`
	CustomBody            *string   `json:"customBody"`
	CustomHeader          *string   `json:"customHeader"`
	CustomIcon            *string   `json:"customIcon"`
}
