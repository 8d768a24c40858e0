package domain

import "time"

// Category classifies repair requests (electrical, plumbing, ...).
type Category struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
