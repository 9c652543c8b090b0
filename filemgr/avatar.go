// Package filemgr stores uploaded avatars. Uploads are validated, decoded,
// resized and re-encoded before a Store persists the bytes.
package filemgr

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"recipebox/apperr"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// Store persists a finished avatar and returns the path clients fetch it from.
type Store interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Upload is an avatar file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Avatars struct {
	store   Store
	newName func() string
}

func NewAvatars(store Store) *Avatars {
	return &Avatars{
		store:   store,
		newName: func() string { return uuid.New().String() + ".jpg" },
	}
}

// SaveAvatar validates and normalises up, stores it under a fresh unique name
// and returns the stored path.
func (a *Avatars) SaveAvatar(ctx context.Context, up Upload) (string, error) {
	if err := validate(up); err != nil {
		return "", err
	}

	img, err := imaging.Decode(up.Body, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.New(apperr.ErrBadRequest, "Avatar must be a valid image")
	}
	img = imaging.Fit(img, AvatarMaxWidth, AvatarMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: AvatarQuality}); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	path, err := a.store.Save(ctx, a.newName(), buf.Bytes(), "image/jpeg")
	if err != nil {
		return "", apperr.Storage("save avatar", err)
	}
	return path, nil
}

func validate(up Upload) error {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !slices.Contains(AllowedExtensions, ext) {
		return apperr.New(apperr.ErrBadRequest, fmt.Sprintf("%v: extension %q", ErrUnsupportedType, ext))
	}
	if ct := strings.ToLower(strings.TrimSpace(up.ContentType)); ct != "" && ct != "application/octet-stream" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		if !slices.Contains(AllowedMIMEs, ct) {
			return apperr.New(apperr.ErrBadRequest, fmt.Sprintf("%v: content type %q", ErrUnsupportedType, ct))
		}
	}
	return nil
}
