package services

import "sync"

// LedgerNotifier fans out ledger-change notifications by circle ID.
//
// The core never depends on these events for correctness: every read
// recomputes from the ledger. The notifier exists so that caching layers
// above the core can invalidate on ledger change instead of attempting
// their own consistency, and so the payout sweep can surface due circles.
type LedgerNotifier struct {
	mu   sync.RWMutex
	subs map[int]func(circleID uint)
	next int
}

// NewLedgerNotifier creates an empty notifier.
func NewLedgerNotifier() *LedgerNotifier {
	return &LedgerNotifier{subs: make(map[int]func(uint))}
}

// Subscribe registers fn to be called on every ledger change. The returned
// function cancels the subscription. Callbacks run synchronously on the
// notifying goroutine and must not block.
func (n *LedgerNotifier) Subscribe(fn func(circleID uint)) (cancel func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Notify informs all subscribers that the ledger of the given circle changed.
// A nil notifier is a no-op so services can be constructed without one.
func (n *LedgerNotifier) Notify(circleID uint) {
	if n == nil {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.subs {
		fn(circleID)
	}
}
