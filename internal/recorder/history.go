package recorder

import "sync"

// TranscriptPair is one displayed result: the recognized English and its translation.
type TranscriptPair struct {
	English string `json:"english"`
	Khmer   string `json:"khmer"`
}

// History is append-only for the life of a session.
type History struct {
	mu    sync.RWMutex
	pairs []TranscriptPair
}

func (h *History) Append(p TranscriptPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pairs = append(h.pairs, p)
}

// Pairs returns a copy in arrival order.
func (h *History) Pairs() []TranscriptPair {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]TranscriptPair, len(h.pairs))
	copy(out, h.pairs)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pairs)
}
