package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutLocateListDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "justificatifs"))
	require.NoError(t, err)

	ref, err := s.Put(ctx, "justif-abc.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.Equal(t, "justif-abc.pdf", ref)

	loc, err := s.Locate(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, ref), loc.LocalPath)

	objs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, ref, objs[0].Ref)

	require.NoError(t, s.Delete(ctx, ref))
	require.NoError(t, s.Delete(ctx, ref), "deleting twice is not an error")
	_, err = s.Locate(ctx, ref)
	assert.Error(t, err)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, err := s.Put(context.Background(), "../../etc/passwd", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd", ref, "only the base name is kept")

	_, err = s.Put(context.Background(), "..", "text/plain", []byte("x"))
	assert.Error(t, err)
}

func TestGenerateObjectName(t *testing.T) {
	n := GenerateObjectName("justif", "PDF")
	assert.True(t, strings.HasPrefix(n, "justif-"))
	assert.True(t, strings.HasSuffix(n, ".pdf"))
	assert.NotEqual(t, n, GenerateObjectName("justif", ".pdf"))
}

func TestPrepareDocument(t *testing.T) {
	t.Run("pdf kept as is", func(t *testing.T) {
		data := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
		doc, err := PrepareDocument(data, "certificat.pdf")
		require.NoError(t, err)
		assert.Equal(t, ".pdf", doc.Ext)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, data, doc.Data)
	})

	t.Run("png converted to webp", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 20))
		for x := 0; x < 40; x++ {
			img.Set(x, 10, color.RGBA{R: 200, A: 255})
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))

		doc, err := PrepareDocument(buf.Bytes(), "scan.png")
		require.NoError(t, err)
		assert.Equal(t, ".webp", doc.Ext)
		assert.Equal(t, "image/webp", doc.ContentType)
		assert.True(t, bytes.HasPrefix(doc.Data, []byte("RIFF")))
	})

	t.Run("rejects other types", func(t *testing.T) {
		_, err := PrepareDocument([]byte("hello world"), "notes.txt")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects empty and oversized", func(t *testing.T) {
		_, err := PrepareDocument(nil, "x.pdf")
		assert.ErrorIs(t, err, ErrEmptyFile)

		big := append([]byte("%PDF-"), make([]byte, MaxUploadSize)...)
		_, err = PrepareDocument(big, "x.pdf")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestDownscaleIfNeeded(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	out := downscaleIfNeeded(src, 200, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	same := downscaleIfNeeded(src, 0, 0)
	assert.Equal(t, src.Bounds(), same.Bounds())
}
