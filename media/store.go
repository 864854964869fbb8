package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Store is where entity images live. Delete must tolerate URLs it does not own.
type Store interface {
	Save(ctx context.Context, b64 string, folder string) (string, error)
	Delete(ctx context.Context, urls []string) error
}

var ErrEmptyImage = errors.New("empty image payload")

// LocalStore keeps uploads on disk under Root and serves them from BaseURL
// (e.g. "http://localhost:8080/uploads").
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *LocalStore) Save(ctx context.Context, b64 string, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}
	b64 = strings.TrimSpace(b64)
	if b64 == "" {
		return "", ErrEmptyImage
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	folder = sanitizeFolder(folder)
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	ext, ok := extByMime[http.DetectContentType(data)]
	if !ok {
		ext = ".jpg"
	}
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.BaseURL + "/" + path.Join(folder, filename), nil
}

func (s *LocalStore) Delete(ctx context.Context, urls []string) error {
	var errs []error
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, ok := s.relativePath(u)
		if !ok {
			log.Printf("media: skip delete of foreign url %s", u)
			continue
		}
		err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", rel, err))
		}
	}
	return errors.Join(errs...)
}

// relativePath maps an owned URL back to its path under Root.
func (s *LocalStore) relativePath(u string) (string, bool) {
	prefix := s.BaseURL + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(u, prefix))
	if rel == "." || strings.HasPrefix(rel, "..") || path.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func sanitizeFolder(folder string) string {
	folder = strings.ToLower(strings.TrimSpace(folder))
	var b strings.Builder
	for _, r := range folder {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "misc"
	}
	return b.String()
}
