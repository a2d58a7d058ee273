package denorm

import (
	"github.com/buger/jsonparser"

	"scylla-migration/internal/model"
)

// Files converts drive files into inline refs. The result is never nil.
func Files(files []model.DriveFile) []model.FileRef {
	refs := make([]model.FileRef, 0, len(files))
	for _, f := range files {
		refs = append(refs, File(f))
	}
	return refs
}

// File converts one drive file. Width and height come from the properties
// bag and are nil when absent or not integral.
func File(f model.DriveFile) model.FileRef {
	return model.FileRef{
		ID:           f.ID,
		Type:         f.Type,
		CreatedAt:    f.CreatedAt,
		Name:         f.Name,
		Comment:      f.Comment,
		Blurhash:     f.Blurhash,
		URL:          f.URL,
		ThumbnailURL: f.ThumbnailURL,
		IsSensitive:  f.IsSensitive,
		IsLink:       f.IsLink,
		MD5:          f.MD5,
		Size:         f.Size,
		Width:        intProp(f.Properties, "width"),
		Height:       intProp(f.Properties, "height"),
	}
}

func intProp(props []byte, key string) *int {
	if len(props) == 0 {
		return nil
	}
	v, err := jsonparser.GetInt(props, key)
	if err != nil {
		return nil
	}
	n := int(v)
	return &n
}
