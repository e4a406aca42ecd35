package gridterm

import "sync"

// OutboundQueue collects byte chunks bound for the child process: caller
// keystrokes and emulator-generated replies. Appends from any goroutine are
// safe; chunks drain in FIFO order, so bytes a producer appended before a
// reply event stay ahead of that reply.
type OutboundQueue struct {
	mu     sync.Mutex
	chunks [][]byte
}

// Append copies p onto the queue. Empty chunks are dropped.
func (q *OutboundQueue) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	owned := make([]byte, len(p))
	copy(owned, p)
	q.mu.Lock()
	q.chunks = append(q.chunks, owned)
	q.mu.Unlock()
}

// AppendString copies s onto the queue.
func (q *OutboundQueue) AppendString(s string) {
	if len(s) == 0 {
		return
	}
	q.mu.Lock()
	q.chunks = append(q.chunks, []byte(s))
	q.mu.Unlock()
}

// Drain removes and returns all queued chunks in order. Returns nil when
// empty.
func (q *OutboundQueue) Drain() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	chunks := q.chunks
	q.chunks = nil
	return chunks
}

// Len returns the number of queued chunks.
func (q *OutboundQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks)
}
