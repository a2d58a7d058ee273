package denorm

import "scylla-migration/internal/model"

// PollVote builds the wide poll_vote row for one voter.
func PollVote(v model.PollVote) model.PollVoteRecord {
	choice := v.Choices
	if choice == nil {
		choice = []int{}
	}
	return model.PollVoteRecord{
		NoteID:    v.NoteID,
		UserID:    v.UserID,
		UserHost:  v.UserHost,
		Choice:    choice,
		CreatedAt: v.CreatedAt,
	}
}

// Notification builds the wide notification row. The entity is whichever of
// note, follow request or group invitation the notification points at.
func Notification(n model.Notification) model.NotificationRecord {
	entity := n.NoteID
	if entity == nil {
		entity = n.FollowRequestID
	}
	if entity == nil {
		entity = n.UserGroupInvitationID
	}
	return model.NotificationRecord{
		TargetID:      n.NotifieeID,
		CreatedAtDate: Day(n.CreatedAt),
		CreatedAt:     n.CreatedAt,
		ID:            n.ID,
		NotifierID:    n.NotifierID,
		NotifierHost:  n.NotifierHost,
		Type:          n.Type,
		EntityID:      entity,
		Reaction:      n.Reaction,
		Choice:        n.Choice,
		CustomBody:    n.CustomBody,
		CustomHeader:  n.CustomHeader,
		CustomIcon:    n.CustomIcon,
	}
}
