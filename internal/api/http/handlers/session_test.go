package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/repair-service/internal/attachments"
	"github.com/campusworks/repair-service/internal/domain"
	"github.com/campusworks/repair-service/internal/storage"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

type uploadPart struct {
	fileName string
	mimeType string
	content  []byte
}

func buildFileHeaders(t *testing.T, parts []uploadPart) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, p.fileName))
		header.Set("Content-Type", p.mimeType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStageSessionSavesUploadsAndReportsDropped(t *testing.T) {
	store, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)

	current := []domain.Attachment{
		{ID: 1, Kind: domain.AttachmentKindRequest, FilePath: "old-1.jpg", FileName: "before.jpg"},
		{ID: 2, Kind: domain.AttachmentKindRequest, FilePath: "old-2.jpg", FileName: "detail.jpg"},
	}
	set := attachments.NewSet(domain.AttachmentKindRequest, current)

	files := buildFileHeaders(t, []uploadPart{
		{fileName: "fresh.jpg", mimeType: "image/jpeg", content: []byte("jpeg-bytes")},
	})

	newImages, dropped, err := stageSession(store, set, []int64{2}, files)
	require.NoError(t, err)

	require.Len(t, newImages, 1)
	assert.Equal(t, "fresh.jpg", newImages[0].FileName)
	assert.FileExists(t, filepath.Join(store.Dir(), newImages[0].FilePath))

	require.Len(t, dropped, 1)
	assert.Equal(t, int64(1), dropped[0].ID)
	assert.Equal(t, []int64{2}, set.BuildSubmission().Keep)
}

func TestStageSessionRejectionNamesFileAndSavesNothing(t *testing.T) {
	store, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)
	set := attachments.NewSet(domain.AttachmentKindRequest, nil)

	files := buildFileHeaders(t, []uploadPart{
		{fileName: "notes.txt", mimeType: "text/plain", content: []byte("not an image")},
	})

	_, _, err = stageSession(store, set, nil, files)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ATTACHMENT_REJECTED"))
	assert.Equal(t, "notes.txt", apperrors.ToDomainError(err).Details["file"])
	assert.Empty(t, dirEntries(t, store.Dir()))
}

func TestDiscardStagedDeletesSavedFiles(t *testing.T) {
	store, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)
	set := attachments.NewSet(domain.AttachmentKindRequest, nil)

	files := buildFileHeaders(t, []uploadPart{
		{fileName: "a.png", mimeType: "image/png", content: []byte("png-bytes")},
		{fileName: "b.webp", mimeType: "image/webp", content: []byte("webp-bytes")},
	})

	newImages, _, err := stageSession(store, set, nil, files)
	require.NoError(t, err)
	require.Len(t, dirEntries(t, store.Dir()), 2)

	discardStaged(store, newImages)
	assert.Empty(t, dirEntries(t, store.Dir()))
}

func TestRemoveDroppedFilesDeletesReconciledAwayImages(t *testing.T) {
	store, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)

	keptPath := filepath.Join(store.Dir(), "kept.jpg")
	goneRelPath := "gone.jpg"
	require.NoError(t, os.WriteFile(keptPath, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), goneRelPath), []byte("y"), 0o644))

	removeDroppedFiles(store, []domain.Attachment{{ID: 7, FilePath: goneRelPath}})

	assert.FileExists(t, keptPath)
	assert.NoFileExists(t, filepath.Join(store.Dir(), goneRelPath))
}
