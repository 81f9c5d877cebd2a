// Package repository holds the gorm-backed persistence layer.
package repository

import (
	"context"
	"time"
)

// DefaultTimeout bounds a storage call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

type timeout time.Duration

// bound derives a context that expires after t.
func (t timeout) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	d := time.Duration(t)
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
