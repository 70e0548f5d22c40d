// Package audit holds the created/modified timestamps every persisted
// entity embeds.
package audit

import "time"

type Fields struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch stamps both fields on first call and only UpdatedAt afterwards.
func (f *Fields) Touch(now time.Time) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
}
