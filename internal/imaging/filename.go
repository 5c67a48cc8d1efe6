package imaging

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"time"
)

// UploadFilename names a direct photo upload. The person id prefix keeps
// files attributable on disk; the timestamp keeps repeat uploads distinct.
func UploadFilename(personID string) string {
	return fmt.Sprintf("%s-%d.jpg", personID, time.Now().UnixMilli())
}

// ImportFilename names an image decoded from an import document. Imported
// filenames are never trusted; only the extension survives.
func ImportFilename(ext string) string {
	if ext == "" {
		ext = ".jpg"
	}
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(buf), ext)
}

// OriginalURL returns the public URL of a stored original.
func OriginalURL(filename string) string {
	return "/uploads/originals/" + filename
}

// ThumbnailURL returns the public URL of a stored thumbnail.
func ThumbnailURL(filename string) string {
	return "/uploads/thumbnails/" + filename
}

// FilenameFromURL extracts the stored filename from either variant URL.
func FilenameFromURL(url string) string {
	return path.Base(url)
}
