package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"net/http"

	"gestionabsence_backend/internals/configs"
	"gestionabsence_backend/internals/constants"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// MaxUploadSize applies to the raw upload, before any conversion.
const MaxUploadSize = int64(5 * 1024 * 1024)

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = fmt.Errorf("file too large (max %d bytes)", MaxUploadSize)
	ErrUnsupportedType = errors.New("only PDF documents or JPEG/PNG scans are accepted")
)

// Document is an upload ready to be stored.
type Document struct {
	Data        []byte
	Ext         string
	ContentType string
}

// PrepareDocument keeps PDFs byte-for-byte and re-encodes image scans to WebP.
func PrepareDocument(data []byte, filename string) (Document, error) {
	if len(data) == 0 {
		return Document{}, ErrEmptyFile
	}
	if int64(len(data)) > MaxUploadSize {
		return Document{}, ErrFileTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	switch constants.DetectFileType(http.DetectContentType(head), filename) {
	case constants.FileTypePDF:
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			return Document{}, ErrUnsupportedType
		}
		return Document{Data: data, Ext: ".pdf", ContentType: "application/pdf"}, nil
	case constants.FileTypeImage:
		out, err := ConvertToWebP(data, defaultWebPOptionsFromEnv())
		if err != nil {
			return Document{}, err
		}
		return Document{Data: out, Ext: ".webp", ContentType: "image/webp"}, nil
	default:
		return Document{}, ErrUnsupportedType
	}
}

/* =======================================================================
   WebP conversion for scanned justifications
======================================================================= */

type WebPOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

func defaultWebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetInt("IMAGE_WEBP_MAX_W", 2000),
		MaxH:    configs.GetInt("IMAGE_WEBP_MAX_H", 2000),
		Quality: float32(configs.GetInt("IMAGE_WEBP_QUALITY", 80)),
	}
}

// ConvertToWebP decodes JPEG/PNG honouring EXIF orientation (phone photos of
// paper certificates are often rotated), downsizes and encodes to WebP.
func ConvertToWebP(data []byte, opt WebPOptions) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)

	q := opt.Quality
	if q <= 0 || q > 100 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
