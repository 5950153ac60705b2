package pdf

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
)

// networkQuietWindow is how long the network must stay idle after the
// load event before the layout is considered final.
const networkQuietWindow = 500 * time.Millisecond

// networkQuiesce tracks the page load event and in-flight requests so a
// render can hold off measuring until external images and fonts have
// finished loading. Arbitrary fragments may reference anything.
type networkQuiesce struct {
	mu         sync.Mutex
	loaded     bool
	inflight   map[network.RequestID]struct{}
	lastChange time.Time
}

func newNetworkQuiesce() *networkQuiesce {
	return &networkQuiesce{
		inflight:   map[network.RequestID]struct{}{},
		lastChange: time.Now(),
	}
}

// arm resets the tracker; call it immediately before setting document
// content so an earlier page's load event cannot satisfy the wait.
func (q *networkQuiesce) arm() {
	q.mu.Lock()
	q.loaded = false
	q.inflight = map[network.RequestID]struct{}{}
	q.lastChange = time.Now()
	q.mu.Unlock()
}

func (q *networkQuiesce) handle(ev any) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch e := ev.(type) {
	case *page.EventLoadEventFired:
		q.loaded = true
		q.lastChange = time.Now()
	case *network.EventRequestWillBeSent:
		q.inflight[e.RequestID] = struct{}{}
		q.lastChange = time.Now()
	case *network.EventLoadingFinished:
		delete(q.inflight, e.RequestID)
		q.lastChange = time.Now()
	case *network.EventLoadingFailed:
		delete(q.inflight, e.RequestID)
		q.lastChange = time.Now()
	}
}

func (q *networkQuiesce) settled(quiet time.Duration) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loaded && len(q.inflight) == 0 && time.Since(q.lastChange) >= quiet
}

// wait blocks until the load event has fired and no request has been in
// flight for the quiet window, or until ctx ends.
func (q *networkQuiesce) wait(ctx context.Context, quiet time.Duration) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for {
		if q.settled(quiet) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
