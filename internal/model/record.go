package model

import "time"

// FileRef is a drive file inlined into a wide record (UDT "drive_file").
type FileRef struct {
	ID           string    `cql:"id" json:"id"`
	Type         string    `cql:"type" json:"type"`
	CreatedAt    time.Time `cql:"createdAt" json:"createdAt"`
	Name         string    `cql:"name" json:"name"`
	Comment      *string   `cql:"comment" json:"comment"`
	Blurhash     *string   `cql:"blurhash" json:"blurhash"`
	URL          string    `cql:"url" json:"url"`
	ThumbnailURL *string   `cql:"thumbnailUrl" json:"thumbnailUrl"`
	IsSensitive  bool      `cql:"isSensitive" json:"isSensitive"`
	IsLink       bool      `cql:"isLink" json:"isLink"`
	MD5          string    `cql:"md5" json:"md5"`
	Size         int       `cql:"size" json:"size"`
	Width        *int      `cql:"width" json:"width"`
	Height       *int      `cql:"height" json:"height"`
}

// PollSnapshot is the poll state at migration time (UDT "poll").
// Choices maps the 1-based choice index to its label.
type PollSnapshot struct {
	ExpiresAt *time.Time     `cql:"expiresAt" json:"expiresAt"`
	Multiple  bool           `cql:"multiple" json:"multiple"`
	Choices   map[int]string `cql:"choices" json:"choices"`
}

// EditHistoryEntry is one previous revision (UDT "note_edit_history").
type EditHistoryEntry struct {
	Content   *string   `cql:"content" json:"content"`
	CW        *string   `cql:"cw" json:"cw"`
	Files     []FileRef `cql:"files" json:"files"`
	UpdatedAt time.Time `cql:"updatedAt" json:"updatedAt"`
}

// PostRecord is the canonical wide "note" row. It is built once with every
// join resolved and is never mutated afterwards.
type PostRecord struct {
	CreatedAtDate        time.Time          `json:"createdAtDate"`
	CreatedAt            time.Time          `json:"createdAt"`
	ID                   string             `json:"id"`
	Visibility           string             `json:"visibility"`
	Content              *string            `json:"content"`
	Name                 *string            `json:"name"`
	CW                   *string            `json:"cw"`
	LocalOnly            bool               `json:"localOnly"`
	RenoteCount          int                `json:"renoteCount"`
	RepliesCount         int                `json:"repliesCount"`
	URI                  *string            `json:"uri"`
	URL                  *string            `json:"url"`
	Score                int                `json:"score"`
	Files                []FileRef          `json:"files"`
	VisibleUserIDs       []string           `json:"visibleUserIds"`
	Mentions             []string           `json:"mentions"`
	MentionedRemoteUsers string             `json:"mentionedRemoteUsers"`
	Emojis               []string           `json:"emojis"`
	Tags                 []string           `json:"tags"`
	HasPoll              bool               `json:"hasPoll"`
	Poll                 *PollSnapshot      `json:"poll"`
	ThreadID             *string            `json:"threadId"`
	ChannelID            *string            `json:"channelId"`
	UserID               string             `json:"userId"`
	UserHost             *string            `json:"userHost"`
	ReplyID              *string            `json:"replyId"`
	ReplyUserID          *string            `json:"replyUserId"`
	ReplyUserHost        *string            `json:"replyUserHost"`
	ReplyContent         *string            `json:"replyContent"`
	ReplyCW              *string            `json:"replyCw"`
	ReplyFiles           []FileRef          `json:"replyFiles"`
	RenoteID             *string            `json:"renoteId"`
	RenoteUserID         *string            `json:"renoteUserId"`
	RenoteUserHost       *string            `json:"renoteUserHost"`
	RenoteContent        *string            `json:"renoteContent"`
	RenoteCW             *string            `json:"renoteCw"`
	RenoteFiles          []FileRef          `json:"renoteFiles"`
	Reactions            map[string]int     `json:"reactions"`
	NoteEdit             []EditHistoryEntry `json:"noteEdit"`
	UpdatedAt            *time.Time         `json:"updatedAt"`
}

// TimelineEntry is a per-follower copy of a PostRecord in "home_timeline".
type TimelineEntry struct {
	FeedUserID string `json:"feedUserId"`
	PostRecord
}

// EmojiRef is a custom emoji inlined into a reaction (UDT "emoji").
type EmojiRef struct {
	Name   string `cql:"name" json:"name"`
	URL    string `cql:"url" json:"url"`
	Width  *int   `cql:"width" json:"width"`
	Height *int   `cql:"height" json:"height"`
}

// ReactionRecord is one row of the wide "reaction" table.
type ReactionRecord struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	UserID    string    `json:"userId"`
	Reaction  string    `json:"reaction"`
	Emoji     *EmojiRef `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// PollVoteRecord is one row of "poll_vote", keyed by (noteId, userId).
type PollVoteRecord struct {
	NoteID    string    `json:"noteId"`
	UserID    string    `json:"userId"`
	UserHost  *string   `json:"userHost"`
	Choice    []int     `json:"choice"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationRecord is one row of "notification", partitioned by
// (targetId, createdAtDate).
type NotificationRecord struct {
	TargetID      string    `json:"targetId"`
	CreatedAtDate time.Time `json:"createdAtDate"`
	CreatedAt     time.Time `json:"createdAt"`
	ID            string    `json:"id"`
	NotifierID    *string   `json:"notifierId"`
	NotifierHost  *string   `json:"notifierHost"`
	Type          string    `json:"type"`
	EntityID      *string   `json:"entityId"`
	Reaction      *string   `json:"reaction"`
	Choice        *int      `json:"choice"`
	CustomBody    *string   `json:"customBody"`
	CustomHeader  *string   `json:"customHeader"`
	CustomIcon    *string   `json:"customIcon"`
}
