package source

import (
	"context"
	"fmt"

	"scylla-migration/internal/model"

	"github.com/jackc/pgx/v5"
)

// Note returns the note with the given id, or nil if it no longer exists.
// A dangling reply or renote target is normal for federated content.
func (s *Store) Note(ctx context.Context, id string) (*model.Note, error) {
	n, err := scanNote(s.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM "note" WHERE "id" = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("note %s: %w", id, err)
	}
	return &n, nil
}

// Files returns the drive files for ids in the order of ids. Missing ids are
// skipped. An empty ids slice issues no query.
func (s *Store) Files(ctx context.Context, ids []string) ([]model.DriveFile, error) {
	if len(ids) == 0 {
		return []model.DriveFile{}, nil
	}
	const q = `
	SELECT "id", "type", "createdAt", "name", "comment", "blurhash", "url", "thumbnailUrl",
		"isSensitive", "isLink", "md5", "size", "properties"
	FROM "drive_file"
	WHERE "id" = ANY($1);
	`
	rows, err := s.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.DriveFile, error) {
		var f model.DriveFile
		err := row.Scan(&f.ID, &f.Type, &f.CreatedAt, &f.Name, &f.Comment, &f.Blurhash, &f.URL, &f.ThumbnailURL,
			&f.IsSensitive, &f.IsLink, &f.MD5, &f.Size, &f.Properties)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan files: %w", err)
	}
	return orderFiles(ids, found), nil
}

// orderFiles puts found back into the order of ids, once per id.
func orderFiles(ids []string, found []model.DriveFile) []model.DriveFile {
	byID := make(map[string]model.DriveFile, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	res := make([]model.DriveFile, 0, len(found))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, f)
	}
	return res
}

// Poll returns the poll attached to noteID, or nil.
func (s *Store) Poll(ctx context.Context, noteID string) (*model.Poll, error) {
	var p model.Poll
	err := s.db.QueryRow(ctx,
		`SELECT "noteId", "expiresAt", "multiple", "choices" FROM "poll" WHERE "noteId" = $1`, noteID,
	).Scan(&p.NoteID, &p.ExpiresAt, &p.Multiple, &p.Choices)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("poll %s: %w", noteID, err)
	}
	return &p, nil
}

// Edits returns the edit history of noteID, oldest first.
func (s *Store) Edits(ctx context.Context, noteID string) ([]model.NoteEdit, error) {
	rows, err := s.db.Query(ctx, `
	SELECT "id", "noteId", "text", "cw", "fileIds", "updatedAt"
	FROM "note_edit"
	WHERE "noteId" = $1
	ORDER BY "updatedAt";`, noteID)
	if err != nil {
		return nil, fmt.Errorf("query edits %s: %w", noteID, err)
	}
	edits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.NoteEdit, error) {
		var e model.NoteEdit
		err := row.Scan(&e.ID, &e.NoteID, &e.Text, &e.CW, &e.FileIDs, &e.UpdatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan edits %s: %w", noteID, err)
	}
	return edits, nil
}

// Emoji returns the custom emoji name@host (host nil for local), or nil.
func (s *Store) Emoji(ctx context.Context, name string, host *string) (*model.Emoji, error) {
	var e model.Emoji
	err := s.db.QueryRow(ctx, `
	SELECT "name", "host", COALESCE(NULLIF("publicUrl", ''), "originalUrl"), "width", "height"
	FROM "emoji"
	WHERE "name" = $1 AND "host" IS NOT DISTINCT FROM $2
	LIMIT 1;`, name, host).Scan(&e.Name, &e.Host, &e.URL, &e.Width, &e.Height)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("emoji %s: %w", name, err)
	}
	return &e, nil
}
