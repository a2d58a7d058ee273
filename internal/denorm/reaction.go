package denorm

import (
	"math"
	"regexp"

	"github.com/buger/jsonparser"

	"scylla-migration/internal/model"
)

// ReactionTally parses a note's inline reaction map. Keys are kept verbatim;
// counts that are not JSON numbers, or do not fit an int, become 0. Malformed input yields whatever
// entries were readable, never an error.
func ReactionTally(raw []byte) map[string]int {
	tally := map[string]int{}
	if len(raw) == 0 {
		return tally
	}
	_ = jsonparser.ObjectEach(raw, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			k = string(key)
		}
		tally[k] = count(value, dt)
		return nil
	})
	return tally
}

func count(value []byte, dt jsonparser.ValueType) int {
	if dt != jsonparser.Number {
		return 0
	}
	if n, err := jsonparser.ParseInt(value); err == nil {
		return int(n)
	}
	f, err := jsonparser.ParseFloat(value)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return 0
	}
	return int(f)
}

var (
	localEmoji  = regexp.MustCompile(`^:([\w+-]+)(?:@\.)?:$`)
	remoteEmoji = regexp.MustCompile(`^:([\w+-]+)@([\w.:-]+):$`)
)

// CustomEmoji splits a custom emoji reaction such as ":blob:", ":blob@.:" or
// ":blob@example.com:". host is nil for local emoji. ok is false for unicode
// reactions.
func CustomEmoji(reaction string) (name string, host *string, ok bool) {
	if m := localEmoji.FindStringSubmatch(reaction); m != nil {
		return m[1], nil, true
	}
	if m := remoteEmoji.FindStringSubmatch(reaction); m != nil {
		h := m[2]
		return m[1], &h, true
	}
	return "", nil, false
}

// Reaction builds the wide reaction row. emoji is nil for unicode reactions
// and for custom emoji that no longer exist.
func Reaction(r model.NoteReaction, emoji *model.Emoji) model.ReactionRecord {
	rec := model.ReactionRecord{
		ID:        r.ID,
		NoteID:    r.NoteID,
		UserID:    r.UserID,
		Reaction:  r.Reaction,
		CreatedAt: r.CreatedAt,
	}
	if emoji != nil {
		rec.Emoji = &model.EmojiRef{
			Name:   emoji.Name,
			URL:    emoji.URL,
			Width:  emoji.Width,
			Height: emoji.Height,
		}
	}
	return rec
}
