package stor

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"github.com/pkg/errors"
)

// ObjectFileName names the file a part is written to, eg
// "listing-1001-2.jpg" for object 2 of content id "Listing 1001".
func ObjectFileName(part rets.Part) string {
	contentID := part.HeaderValue("Content-ID")
	objectID := part.HeaderValue("Object-ID")
	if objectID == "" {
		objectID = fmt.Sprint(part.Index)
	}

	name := slug.Make(contentID + " " + objectID)
	if name == "" {
		name = fmt.Sprintf("object-%d", part.Index)
	}

	return name + extensionFor(part.HeaderValue("Content-Type"))
}

var commonExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}

	if ext, ok := commonExtensions[mediaType]; ok {
		return ext
	}

	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}

	return ""
}

// WriteObjectPart writes part.Data under dir and returns the ObjectPart
// describing it. The part is not saved to a stor.
func WriteObjectPart(dir, resource string, part rets.Part) (*retsmodel.ObjectPart, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed creating %s", dir)
	}

	path := filepath.Join(dir, ObjectFileName(part))
	if err := os.WriteFile(path, part.Data, 0644); err != nil {
		return nil, errors.Wrapf(err, "failed writing %s", path)
	}

	return &retsmodel.ObjectPart{
		Resource:    resource,
		ContentID:   part.HeaderValue("Content-ID"),
		ObjectID:    part.HeaderValue("Object-ID"),
		ContentType: part.HeaderValue("Content-Type"),
		Path:        path,
		Size:        int64(len(part.Data)),
	}, nil
}
