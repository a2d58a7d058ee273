// Package denorm turns relational rows into self-contained wide records.
// Everything here is pure: lookups happen before, writes after.
package denorm

import (
	"time"

	"scylla-migration/internal/model"
)

// PostInput is a note together with every related row already resolved.
// Reply and Renote are nil when the note has no target or the target is gone.
type PostInput struct {
	Note        model.Note
	Reply       *model.Note
	Renote      *model.Note
	Files       []model.DriveFile
	ReplyFiles  []model.DriveFile
	RenoteFiles []model.DriveFile
	Poll        *model.Poll
	Edits       []model.EditHistoryEntry
	Reactions   map[string]int
}

// Day truncates t to its UTC calendar day, the partition key of
// time-partitioned tables.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Post builds the canonical record for in.Note.
func Post(in PostInput) model.PostRecord {
	n := in.Note
	rec := model.PostRecord{
		CreatedAtDate:        Day(n.CreatedAt),
		CreatedAt:            n.CreatedAt,
		ID:                   n.ID,
		Visibility:           n.Visibility,
		Content:              n.Text,
		Name:                 n.Name,
		CW:                   n.CW,
		LocalOnly:            n.LocalOnly,
		RenoteCount:          n.RenoteCount,
		RepliesCount:         n.RepliesCount,
		URI:                  n.URI,
		URL:                  n.URL,
		Score:                n.Score,
		Files:                Files(in.Files),
		VisibleUserIDs:       n.VisibleUserIDs,
		Mentions:             n.Mentions,
		MentionedRemoteUsers: n.MentionedRemoteUsers,
		Emojis:               n.Emojis,
		Tags:                 n.Tags,
		ThreadID:             n.ThreadID,
		ChannelID:            n.ChannelID,
		UserID:               n.UserID,
		UserHost:             n.UserHost,
		ReplyFiles:           []model.FileRef{},
		RenoteFiles:          []model.FileRef{},
		Reactions:            in.Reactions,
		NoteEdit:             in.Edits,
		UpdatedAt:            n.UpdatedAt,
	}
	if rec.Reactions == nil {
		rec.Reactions = map[string]int{}
	}
	if rec.NoteEdit == nil {
		rec.NoteEdit = []model.EditHistoryEntry{}
	}
	if in.Poll != nil {
		rec.Poll = PollSnapshot(*in.Poll)
	}
	rec.HasPoll = rec.Poll != nil

	if r := in.Reply; r != nil {
		rec.ReplyID = &r.ID
		rec.ReplyUserID = &r.UserID
		rec.ReplyUserHost = r.UserHost
		rec.ReplyContent = r.Text
		rec.ReplyCW = r.CW
		rec.ReplyFiles = Files(in.ReplyFiles)
	}
	if r := in.Renote; r != nil {
		rec.RenoteID = &r.ID
		rec.RenoteUserID = &r.UserID
		rec.RenoteUserHost = r.UserHost
		rec.RenoteContent = r.Text
		rec.RenoteCW = r.CW
		rec.RenoteFiles = Files(in.RenoteFiles)
	}
	return rec
}

// Timeline copies rec into feedUserID's home timeline. The partition date is
// copied from rec, never recomputed.
func Timeline(rec model.PostRecord, feedUserID string) model.TimelineEntry {
	return model.TimelineEntry{FeedUserID: feedUserID, PostRecord: rec}
}

// PollSnapshot converts a poll row; choices are keyed from 1.
func PollSnapshot(p model.Poll) *model.PollSnapshot {
	choices := make(map[int]string, len(p.Choices))
	for i, c := range p.Choices {
		choices[i+1] = c
	}
	return &model.PollSnapshot{
		ExpiresAt: p.ExpiresAt,
		Multiple:  p.Multiple,
		Choices:   choices,
	}
}

// Edit converts one note_edit row with its resolved attachments.
func Edit(e model.NoteEdit, files []model.DriveFile) model.EditHistoryEntry {
	return model.EditHistoryEntry{
		Content:   e.Text,
		CW:        e.CW,
		Files:     Files(files),
		UpdatedAt: e.UpdatedAt,
	}
}
