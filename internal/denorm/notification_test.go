package denorm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scylla-migration/internal/model"
)

func TestNotificationEntity(t *testing.T) {
	at := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		name string
		n    model.Notification
		want *string
	}{
		{"note wins", model.Notification{NoteID: ptr("n"), FollowRequestID: ptr("fr")}, ptr("n")},
		{"follow request", model.Notification{FollowRequestID: ptr("fr"), UserGroupInvitationID: ptr("g")}, ptr("fr")},
		{"group invitation", model.Notification{UserGroupInvitationID: ptr("g")}, ptr("g")},
		{"none", model.Notification{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.n.ID = "x"
			tt.n.NotifieeID = "target"
			tt.n.CreatedAt = at
			rec := Notification(tt.n)
			assert.Equal(t, tt.want, rec.EntityID)
			assert.Equal(t, "target", rec.TargetID)
			assert.Equal(t, time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC), rec.CreatedAtDate)
		})
	}
}

func TestPollVoteChoiceNeverNil(t *testing.T) {
	rec := PollVote(model.PollVote{NoteID: "n", UserID: "u"})
	assert.NotNil(t, rec.Choice)
	assert.Empty(t, rec.Choice)
}
