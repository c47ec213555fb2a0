package processor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// DefaultBatchInterval is the poll period for a batch of invoices.
const DefaultBatchInterval = 2500 * time.Millisecond

// BatchState is a snapshot of a batch for the presentation layer. Pending
// preserves submission order; Completed is keyed by invoice id, with
// insertion following poll completion order, not upload order.
type BatchState struct {
	Uploading bool
	Outcome   *model.BatchUploadResult
	Pending   []string
	Completed map[string]*model.ProcessingResult
	Err       string
	Done      bool
}

// BatchProcessor drives N invoices submitted together to joint completion.
// One poll loop serves the whole batch: each tick polls every pending id
// sequentially, moves terminal ones into the completed map and keeps
// transport-failed ones for retry on the next tick. The batch is done when
// every accepted id is terminal, regardless of per-invoice success.
type BatchProcessor struct {
	api      client.InvoiceAPI
	interval time.Duration

	mu        sync.Mutex
	uploading bool
	outcome   *model.BatchUploadResult
	pending   []string
	completed map[string]*model.ProcessingResult
	errMsg    string
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewBatch creates a batch processor. A non-positive interval selects the
// default 2.5 s period.
func NewBatch(api client.InvoiceAPI, interval time.Duration) *BatchProcessor {
	if interval <= 0 {
		interval = DefaultBatchInterval
	}
	return &BatchProcessor{api: api, interval: interval}
}

// Upload submits the files in one request and starts polling the accepted
// subset. The per-file outcomes are returned as the backend reported them.
func (b *BatchProcessor) Upload(ctx context.Context, files []client.UploadFile, buyerGSTIN string) (*model.BatchUploadResult, error) {
	b.stopLoop()

	b.mu.Lock()
	b.uploading = true
	b.outcome = nil
	b.pending = nil
	b.completed = nil
	b.errMsg = ""
	b.done = nil
	b.mu.Unlock()

	outcome, err := b.api.UploadBatch(ctx, files, buyerGSTIN)
	if err != nil {
		b.mu.Lock()
		b.uploading = false
		b.errMsg = err.Error()
		b.mu.Unlock()
		return nil, err
	}

	pending := outcome.AcceptedIDs()
	done := make(chan struct{})
	loopCtx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	b.uploading = false
	b.outcome = outcome
	b.pending = pending
	b.completed = make(map[string]*model.ProcessingResult, len(pending))
	b.cancel = cancel
	b.done = done
	b.mu.Unlock()

	if len(pending) == 0 {
		cancel()
		close(done)
		return outcome, nil
	}

	go b.pollLoop(loopCtx, done)
	return outcome, nil
}

// pollLoop runs one ticker for the whole batch and stops it on every exit
// path. A tick works on a stable snapshot of the pending set, never on the
// live slice it is mutating.
func (b *BatchProcessor) pollLoop(ctx context.Context, done chan struct{}) {
	ticker := newPollTicker(b.interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if b.tick(ctx, done) {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// tick polls every pending invoice once, sequentially. It reports true
// when the pending set is empty and the batch is complete.
func (b *BatchProcessor) tick(ctx context.Context, done chan struct{}) bool {
	b.mu.Lock()
	if b.done != done {
		b.mu.Unlock()
		return true
	}
	snapshot := make([]string, len(b.pending))
	copy(snapshot, b.pending)
	b.mu.Unlock()

	for _, id := range snapshot {
		b.mu.Lock()
		_, alreadyDone := b.completed[id]
		b.mu.Unlock()
		if alreadyDone {
			continue
		}

		result, err := pollOnce(ctx, b.api, id)
		if err != nil {
			// Transport failure: keep the id pending and retry next tick.
			// Siblings are unaffected.
			log.Printf("[Batch] poll %s failed, retrying next tick: %v", id, err)
			continue
		}
		if !result.Terminal() {
			continue
		}

		b.mu.Lock()
		if b.done != done {
			b.mu.Unlock()
			return true
		}
		b.completed[id] = result
		b.pending = removeID(b.pending, id)
		remaining := len(b.pending)
		b.mu.Unlock()

		log.Printf("[Batch] invoice %s reached %s (%d pending)", id, result.Status, remaining)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done == done && len(b.pending) == 0
}

// Done returns a channel closed when every accepted invoice is terminal or
// the batch is abandoned. Nil before any upload.
func (b *BatchProcessor) Done() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Wait blocks until the batch completes or ctx expires, then returns the
// completed map.
func (b *BatchProcessor) Wait(ctx context.Context) (map[string]*model.ProcessingResult, error) {
	done := b.Done()
	if done == nil {
		return nil, context.Canceled
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	return b.Snapshot().Completed, nil
}

// Snapshot returns a copy of the batch state.
func (b *BatchProcessor) Snapshot() BatchState {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := make([]string, len(b.pending))
	copy(pending, b.pending)
	completed := make(map[string]*model.ProcessingResult, len(b.completed))
	for id, r := range b.completed {
		completed[id] = r
	}

	return BatchState{
		Uploading: b.uploading,
		Outcome:   b.outcome,
		Pending:   pending,
		Completed: completed,
		Err:       b.errMsg,
		Done:      b.outcome != nil && len(b.pending) == 0,
	}
}

// Reset cancels the poll loop before clearing state.
func (b *BatchProcessor) Reset() {
	b.stopLoop()

	b.mu.Lock()
	b.uploading = false
	b.outcome = nil
	b.pending = nil
	b.completed = nil
	b.errMsg = ""
	b.done = nil
	b.mu.Unlock()
}

func (b *BatchProcessor) stopLoop() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
