// Package sink writes wide records to Scylla. Every write is a single CQL
// INSERT, which is an upsert: a re-run overwrites rows keyed by the same
// primary key instead of appending.
package sink

// Table identifies a destination table.
type Table string

const (
	TableNote         Table = "note"
	TableHomeTimeline Table = "home_timeline"
	TableReaction     Table = "reaction"
	TablePollVote     Table = "poll_vote"
	TableNotification Table = "notification"
)

// noteColumns is shared by "note" and "home_timeline"; the timeline table
// prepends "feedUserId".
const noteColumns = `"createdAtDate", "createdAt", "id", "visibility", "content", "name", "cw",
	"localOnly", "renoteCount", "repliesCount", "uri", "url", "score", "files", "visibleUserIds",
	"mentions", "mentionedRemoteUsers", "emojis", "tags", "hasPoll", "poll", "threadId", "channelId",
	"userId", "userHost", "replyId", "replyUserId", "replyUserHost", "replyContent", "replyCw",
	"replyFiles", "renoteId", "renoteUserId", "renoteUserHost", "renoteContent", "renoteCw",
	"renoteFiles", "reactions", "noteEdit", "updatedAt"`

const noteMarks = `?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?`

var statements = map[Table]string{
	TableNote: `INSERT INTO note (` + noteColumns + `) VALUES (` + noteMarks + `)`,
	TableHomeTimeline: `INSERT INTO home_timeline ("feedUserId", ` + noteColumns + `)
		VALUES (?, ` + noteMarks + `)`,
	TableReaction: `INSERT INTO reaction ("id", "noteId", "userId", "reaction", "emoji", "createdAt")
		VALUES (?, ?, ?, ?, ?, ?)`,
	TablePollVote: `INSERT INTO poll_vote ("noteId", "userId", "userHost", "choice", "createdAt")
		VALUES (?, ?, ?, ?, ?)`,
	TableNotification: `INSERT INTO notification ("targetId", "createdAtDate", "createdAt", "id",
		"notifierId", "notifierHost", "type", "entityId", "reaction", "choice", "customBody",
		"customHeader", "customIcon")
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
}

// Statement returns the prepared INSERT for t.
func Statement(t Table) (string, bool) {
	s, ok := statements[t]
	return s, ok
}
