package host

import (
	"context"
	"fmt"
	"html"
	"sync"
)

// MediaStore resolves attachment ids to thumbnails.
type MediaStore interface {
	// Thumbnail returns the thumbnail URL of an attachment.
	Thumbnail(ctx context.Context, id string) (string, bool)
	// ImageTag returns thumbnail <img> markup, or "" for unknown ids.
	ImageTag(ctx context.Context, id string) string
}

// Attachment is one media library item.
type Attachment struct {
	ID       string
	URL      string
	ThumbURL string
	Alt      string
}

// MemoryMedia is a map-backed MediaStore.
type MemoryMedia struct {
	mu    sync.RWMutex
	items map[string]Attachment
}

var _ MediaStore = (*MemoryMedia)(nil)

// NewMemoryMedia seeds the store with attachments.
func NewMemoryMedia(items ...Attachment) *MemoryMedia {
	m := &MemoryMedia{items: make(map[string]Attachment, len(items))}
	for _, item := range items {
		m.Put(item)
	}
	return m
}

// Put adds or replaces an attachment.
func (m *MemoryMedia) Put(item Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[item.ID] = item
}

func (m *MemoryMedia) Thumbnail(_ context.Context, id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return "", false
	}
	if item.ThumbURL != "" {
		return item.ThumbURL, true
	}
	return item.URL, item.URL != ""
}

func (m *MemoryMedia) ImageTag(ctx context.Context, id string) string {
	src, ok := m.Thumbnail(ctx, id)
	if !ok {
		return ""
	}
	m.mu.RLock()
	alt := m.items[id].Alt
	m.mu.RUnlock()

	return fmt.Sprintf(`<img width="150" height="150" src="%s" class="attachment-thumbnail" alt="%s" />`,
		html.EscapeString(src), html.EscapeString(alt))
}
