package attachments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/repair-service/internal/domain"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

func seededSet() *Set {
	return NewSet(domain.AttachmentKindRequest, []domain.Attachment{
		{ID: 1, FilePath: "uploads/a.jpg"},
		{ID: 2, FilePath: "uploads/b.jpg"},
	})
}

func TestAddNewAccepted(t *testing.T) {
	set := seededSet()
	err := set.AddNew(File{FileName: "leak.png", MimeType: "image/png", SizeBytes: 1024})
	require.NoError(t, err)
	require.Len(t, set.PendingNew(), 1)
	assert.NotEmpty(t, set.PendingNew()[0].PreviewKey)
}

func TestAddNewRejectsOversize(t *testing.T) {
	set := seededSet()
	err := set.AddNew(File{FileName: "big.jpg", MimeType: "image/jpeg", SizeBytes: 6 << 20})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ATTACHMENT_REJECTED"))
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, RejectReasonSize, domainErr.Details["reason"])
	assert.Empty(t, set.PendingNew(), "rejected file must not be staged")
}

func TestAddNewRejectsWrongType(t *testing.T) {
	set := seededSet()
	err := set.AddNew(File{FileName: "doc.pdf", MimeType: "application/pdf", SizeBytes: 1024})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "ATTACHMENT_REJECTED"))
	assert.Equal(t, RejectReasonType, apperrors.ToDomainError(err).Details["reason"])
}

func TestAddNewPreservesOrder(t *testing.T) {
	set := seededSet()
	for _, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		require.NoError(t, set.AddNew(File{FileName: name, MimeType: "image/jpeg", SizeBytes: 10}))
	}
	staged := set.PendingNew()
	require.Len(t, staged, 3)
	assert.Equal(t, "one.jpg", staged[0].FileName)
	assert.Equal(t, "two.jpg", staged[1].FileName)
	assert.Equal(t, "three.jpg", staged[2].FileName)
}

func TestRemoveNewByPosition(t *testing.T) {
	set := seededSet()
	require.NoError(t, set.AddNew(File{FileName: "one.jpg", MimeType: "image/jpeg", SizeBytes: 10}))
	require.NoError(t, set.AddNew(File{FileName: "two.jpg", MimeType: "image/jpeg", SizeBytes: 10}))
	set.RemoveNew(0)
	staged := set.PendingNew()
	require.Len(t, staged, 1)
	assert.Equal(t, "two.jpg", staged[0].FileName)

	set.RemoveNew(99) // out of range is a no-op
	assert.Len(t, set.PendingNew(), 1)
}

func TestRemoveCurrentIdempotent(t *testing.T) {
	set := seededSet()
	set.RemoveCurrent(1)
	set.RemoveCurrent(1)
	sub := set.BuildSubmission()
	assert.Equal(t, []int64{2}, sub.Keep)
}

func TestRemoveCurrentUnknownIDIgnored(t *testing.T) {
	set := seededSet()
	set.RemoveCurrent(42)
	assert.Equal(t, []int64{1, 2}, set.BuildSubmission().Keep)
}

func TestBuildSubmissionKeepPlusNew(t *testing.T) {
	set := seededSet()
	set.RemoveCurrent(1)
	require.NoError(t, set.AddNew(File{FileName: "fileA.jpg", MimeType: "image/jpeg", SizeBytes: 100}))

	sub := set.BuildSubmission()
	assert.Equal(t, []int64{2}, sub.Keep)
	require.Len(t, sub.NewFiles, 1)
	assert.Equal(t, "fileA.jpg", sub.NewFiles[0].FileName)
}

func TestCurrentHidesRemoved(t *testing.T) {
	set := seededSet()
	set.RemoveCurrent(2)
	visible := set.Current()
	require.Len(t, visible, 1)
	assert.Equal(t, int64(1), visible[0].ID)
}
