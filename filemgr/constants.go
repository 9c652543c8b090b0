package filemgr

import "errors"

// Avatars are re-encoded as JPEG and fit inside this box.
const (
	AvatarMaxWidth  = 512
	AvatarMaxHeight = 512
	AvatarQuality   = 85

	// MaxUploadSize bounds the multipart body of POST /profile/update.
	MaxUploadSize = 10 << 20
)

var (
	AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	AllowedMIMEs      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrUnsupportedType = errors.New("unsupported avatar type")
)
