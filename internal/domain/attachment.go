package domain

import "time"

// AttachmentKind distinguishes the two independent image collections a ticket
// carries: evidence filed with the request and evidence of the completed work.
type AttachmentKind string

const (
	AttachmentKindRequest    AttachmentKind = "request"
	AttachmentKindCompletion AttachmentKind = "completion"
)

// Attachment is a persisted image reference. FilePath is relative to the image
// base path and treated as opaque by the lifecycle core.
type Attachment struct {
	ID        int64
	TicketID  int64
	Kind      AttachmentKind
	FilePath  string
	FileName  string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}
