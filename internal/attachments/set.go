// Package attachments models one image collection through an edit session.
// A ticket carries two of these (request evidence and completion evidence);
// the same type serves both, parameterized by kind.
package attachments

import (
	"github.com/google/uuid"

	"github.com/campusworks/repair-service/internal/domain"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

// MaxFileSize is the upload ceiling per image.
const MaxFileSize = 5 << 20 // 5 MiB

// RejectReason values carried in ATTACHMENT_REJECTED details.
const (
	RejectReasonSize = "size"
	RejectReasonType = "type"
)

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// File is a freshly selected image not yet uploaded. Content transport is the
// caller's concern; the set only validates and orders metadata.
type File struct {
	PreviewKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// Submission is the reconcile instruction the ticket store expects: persisted
// ids to keep plus new files to upload. Everything absent from Keep is deleted
// server-side once the overall submission succeeds.
type Submission struct {
	Keep     []int64
	NewFiles []File
}

// Set tracks one attachment collection across an edit session. Removals of
// persisted attachments are only marked here; nothing is deleted until the
// ticket submission commits, so a failed submit loses no images.
type Set struct {
	kind       domain.AttachmentKind
	current    []domain.Attachment
	pendingNew []File
	removed    map[int64]struct{}
}

// NewSet seeds a session from the attachments already persisted on the ticket.
func NewSet(kind domain.AttachmentKind, current []domain.Attachment) *Set {
	return &Set{
		kind:    kind,
		current: append([]domain.Attachment(nil), current...),
		removed: make(map[int64]struct{}),
	}
}

// Kind returns which collection this set manages.
func (s *Set) Kind() domain.AttachmentKind {
	return s.kind
}

// AddNew validates and stages a freshly selected file. Rejections are
// per-file: the set is left unchanged and the caller may continue with the
// rest of the batch.
func (s *Set) AddNew(file File) error {
	if file.SizeBytes > MaxFileSize {
		return apperrors.NewAttachmentRejected(RejectReasonSize, file.FileName)
	}
	if _, ok := allowedMimeTypes[file.MimeType]; !ok {
		return apperrors.NewAttachmentRejected(RejectReasonType, file.FileName)
	}
	if file.PreviewKey == "" {
		file.PreviewKey = uuid.NewString()
	}
	s.pendingNew = append(s.pendingNew, file)
	return nil
}

// RemoveNew drops a staged file by position. Out-of-range indexes are ignored.
func (s *Set) RemoveNew(index int) {
	if index < 0 || index >= len(s.pendingNew) {
		return
	}
	s.pendingNew = append(s.pendingNew[:index], s.pendingNew[index+1:]...)
}

// RemoveCurrent marks a persisted attachment for deletion. Idempotent; ids not
// present in the current collection are ignored.
func (s *Set) RemoveCurrent(id int64) {
	for _, att := range s.current {
		if att.ID == id {
			s.removed[id] = struct{}{}
			return
		}
	}
}

// Current returns the persisted attachments still visible in the session.
func (s *Set) Current() []domain.Attachment {
	visible := make([]domain.Attachment, 0, len(s.current))
	for _, att := range s.current {
		if _, gone := s.removed[att.ID]; !gone {
			visible = append(visible, att)
		}
	}
	return visible
}

// PendingNew returns staged files in addition order.
func (s *Set) PendingNew() []File {
	return append([]File(nil), s.pendingNew...)
}

// BuildSubmission produces the keep+new instruction for the ticket store.
func (s *Set) BuildSubmission() Submission {
	keep := make([]int64, 0, len(s.current))
	for _, att := range s.current {
		if _, gone := s.removed[att.ID]; !gone {
			keep = append(keep, att.ID)
		}
	}
	return Submission{
		Keep:     keep,
		NewFiles: append([]File(nil), s.pendingNew...),
	}
}
