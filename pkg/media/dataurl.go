package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxUploadBytes bounds a single uploaded media file.
const MaxUploadBytes = 8 << 20

// EncodeDataURL reads an uploaded file and encodes it as a base64 data URL.
// The content type is taken from the upload when present, otherwise sniffed
// from the bytes.
func EncodeDataURL(r io.Reader, declaredType string) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if len(b) > MaxUploadBytes {
		return "", fmt.Errorf("file exceeds %d bytes", MaxUploadBytes)
	}

	ct := declaredType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(b)
	}

	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// KindOf maps a content type to the media kind used in posts: "gif" for
// image/gif, "video" for video/*, "image" otherwise.
func KindOf(contentType string) string {
	switch {
	case contentType == "image/gif":
		return "gif"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return "image"
	}
}
