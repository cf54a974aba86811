package constants

import (
	"path/filepath"
	"strings"
)

const (
	FileTypeUnknown = 0
	FileTypePDF     = 1
	FileTypeImage   = 2
)

// DetectFileTypeFromExt is the fallback when content sniffing is inconclusive.
func DetectFileTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return FileTypePDF
	case ".png", ".jpg", ".jpeg":
		return FileTypeImage
	default:
		return FileTypeUnknown
	}
}

// DetectFileType sniffs the first bytes reported by http.DetectContentType.
func DetectFileType(contentType, filename string) int {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "application/pdf"):
		return FileTypePDF
	case strings.HasPrefix(ct, "image/jpeg"), strings.HasPrefix(ct, "image/png"):
		return FileTypeImage
	case strings.HasPrefix(ct, "application/octet-stream"), ct == "":
		return DetectFileTypeFromExt(filename)
	default:
		return FileTypeUnknown
	}
}
