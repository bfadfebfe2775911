// Package media uploads profile images to object storage.
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize int64 = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Service struct {
	storage ObjectStorage
	now     func() time.Time
}

func NewService(storage ObjectStorage) *Service {
	return &Service{storage: storage, now: time.Now}
}

// UploadProfileImage stores the image and returns its public URL. It does not
// retry failed uploads.
func (s *Service) UploadProfileImage(ctx context.Context, userID uuid.UUID, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("media storage is not configured")
	}
	if body == nil || size <= 0 {
		return "", domain.ErrInvalidImage
	}
	if size > MaxImageSize {
		return "", domain.ErrImageTooLarge
	}

	contentType = normalizeContentType(contentType, fileName)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", domain.ErrInvalidImage
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key, err := s.profileObjectKey(userID, ext)
	if err != nil {
		return "", fmt.Errorf("build object key: %w", err)
	}

	if err := s.storage.Put(ctx, key, io.LimitReader(body, size), size, contentType); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.storage.URL(key), nil
}

func (s *Service) profileObjectKey(userID uuid.UUID, ext string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	stamp := s.now().UTC().Format("20060102T150405")
	return fmt.Sprintf("users/%s/profile/%s_%s%s", userID, stamp, hex.EncodeToString(rnd), ext), nil
}

// normalizeContentType strips parameters and falls back to the file
// extension when the client sent no useful type.
func normalizeContentType(contentType, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mediaType
	}
	if ct == "" || ct == "application/octet-stream" {
		ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
		switch ext {
		case ".jpg", ".jpeg":
			return "image/jpeg"
		case ".png":
			return "image/png"
		case ".webp":
			return "image/webp"
		case ".gif":
			return "image/gif"
		}
	}
	return ct
}
