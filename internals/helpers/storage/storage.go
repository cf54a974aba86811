// Package storage keeps justification documents either on local disk or in Alibaba OSS.
package storage

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"gestionabsence_backend/internals/configs"

	"github.com/google/uuid"
)

const (
	DriverLocal = "local"
	DriverOSS   = "oss"
)

// Object is a stored blob as returned by List.
type Object struct {
	Ref     string
	Size    int64
	ModTime time.Time
}

// Location tells a controller how to serve a stored blob: either a file on
// disk or a (signed) URL to redirect to.
type Location struct {
	LocalPath string
	URL       string
}

type BlobStore interface {
	Driver() string
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
	Locate(ctx context.Context, ref string) (Location, error)
	List(ctx context.Context) ([]Object, error)
}

// NewFromEnv picks the driver from STORAGE_DRIVER; OSS falls back to local
// when its credentials are incomplete.
func NewFromEnv() (BlobStore, error) {
	driver := strings.ToLower(configs.GetEnv("STORAGE_DRIVER", DriverLocal))
	switch driver {
	case DriverOSS:
		s, err := NewOSSStoreFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "justificatifs"))
		if err != nil {
			log.Printf("[WARN] OSS storage unavailable (%v), falling back to local disk", err)
			return NewLocalStore(configs.GetEnv("UPLOAD_DIR", "./uploads/justificatifs"))
		}
		return s, nil
	case DriverLocal, "":
		return NewLocalStore(configs.GetEnv("UPLOAD_DIR", "./uploads/justificatifs"))
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

// GenerateObjectName returns "justif-<uuid><ext>".
func GenerateObjectName(prefix, ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if prefix == "" {
		prefix = "file"
	}
	return fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)
}

// cleanName refuses anything that could escape the storage root.
func cleanName(name string) (string, error) {
	n := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if n == "" || n == "." || n == "/" || n == ".." {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return n, nil
}
