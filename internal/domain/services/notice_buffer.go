package services

import (
	"sync"

	"go_mock_panel/internal/domain/store"
)

// noticeBuffer keeps the most recent notices of a session until the UI
// drains them.
type noticeBuffer struct {
	mu      sync.Mutex
	limit   int
	notices []store.Notice
}

func newNoticeBuffer(limit int) *noticeBuffer {
	return &noticeBuffer{limit: max(limit, 1)}
}

func (b *noticeBuffer) Notify(n store.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	if over := len(b.notices) - b.limit; over > 0 {
		b.notices = append([]store.Notice(nil), b.notices[over:]...)
	}
}

func (b *noticeBuffer) Drain() []store.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	if out == nil {
		out = []store.Notice{}
	}
	return out
}
