package evidence

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const PhotoDir = "evidencias"

const photoPrefix = PhotoDir + "/"

var photoContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

type Photo struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Extension returns the lowercase extension without the dot.
func (p Photo) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p.Filename), "."))
}

func (p Photo) ContentType() string {
	return photoContentTypes[p.Extension()]
}

// NewPhotoKey builds "evidencias/ev_<13 hex>_<unix>.<ext>".
func NewPhotoKey(ext string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%sev_%s_%d.%s", photoPrefix, token, now.Unix(), ext)
}

// URLResolver turns a stored photo reference into a displayable URL.
// References under evidencias/ live in the public directory; anything else is a
// path handed out by the storage service.
type URLResolver struct {
	PublicBaseURL  string
	StorageBaseURL string
}

func (r URLResolver) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, photoPrefix) {
		return joinURL(r.PublicBaseURL, ref)
	}
	return joinURL(r.StorageBaseURL, ref)
}

func joinURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
