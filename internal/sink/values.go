package sink

import "scylla-migration/internal/model"

// NoteValues returns the positional parameters of the note INSERT, in
// column order.
func NoteValues(r *model.PostRecord) []any {
	return []any{
		r.CreatedAtDate, r.CreatedAt, r.ID, r.Visibility, r.Content, r.Name, r.CW,
		r.LocalOnly, r.RenoteCount, r.RepliesCount, r.URI, r.URL, r.Score, r.Files, r.VisibleUserIDs,
		r.Mentions, r.MentionedRemoteUsers, r.Emojis, r.Tags, r.HasPoll, r.Poll, r.ThreadID, r.ChannelID,
		r.UserID, r.UserHost, r.ReplyID, r.ReplyUserID, r.ReplyUserHost, r.ReplyContent, r.ReplyCW,
		r.ReplyFiles, r.RenoteID, r.RenoteUserID, r.RenoteUserHost, r.RenoteContent, r.RenoteCW,
		r.RenoteFiles, r.Reactions, r.NoteEdit, r.UpdatedAt,
	}
}

// TimelineValues is NoteValues with the feed owner prepended.
func TimelineValues(e *model.TimelineEntry) []any {
	return append([]any{e.FeedUserID}, NoteValues(&e.PostRecord)...)
}

func ReactionValues(r *model.ReactionRecord) []any {
	return []any{r.ID, r.NoteID, r.UserID, r.Reaction, r.Emoji, r.CreatedAt}
}

func PollVoteValues(v *model.PollVoteRecord) []any {
	return []any{v.NoteID, v.UserID, v.UserHost, v.Choice, v.CreatedAt}
}

func NotificationValues(n *model.NotificationRecord) []any {
	return []any{
		n.TargetID, n.CreatedAtDate, n.CreatedAt, n.ID,
		n.NotifierID, n.NotifierHost, n.Type, n.EntityID, n.Reaction, n.Choice, n.CustomBody,
		n.CustomHeader, n.CustomIcon,
	}
}
