package processor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lthibault/jitterbug/v2"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// DefaultSingleInterval is the poll period for a single invoice.
const DefaultSingleInterval = 2000 * time.Millisecond

// pollOnce fetches the current backend record for an invoice and maps it.
// A transport error is distinct from a failed status in the record: the
// former returns an error here, the latter a terminal result.
func pollOnce(ctx context.Context, api client.InvoiceAPI, invoiceID string) (*model.ProcessingResult, error) {
	record, err := api.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return MapInvoiceRecord(record), nil
}

// newPollTicker builds the jittered ticker driving a poll loop.
func newPollTicker(interval time.Duration) *jitterbug.Ticker {
	return jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 100})
}

// State is a snapshot of a Processor for the presentation layer.
type State struct {
	Uploading  bool
	Processing bool
	InvoiceID  string
	Result     *model.ProcessingResult
	Err        string
}

// Processor drives one invoice from submission to a terminal status via
// interval polling. At most one poll loop is active per instance; starting
// a new upload or calling Reset cancels the previous loop first.
type Processor struct {
	api      client.InvoiceAPI
	interval time.Duration

	mu         sync.Mutex
	uploading  bool
	processing bool
	invoiceID  string
	result     *model.ProcessingResult
	errMsg     string
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates a single-invoice processor. A non-positive interval selects
// the default 2 s period.
func New(api client.InvoiceAPI, interval time.Duration) *Processor {
	if interval <= 0 {
		interval = DefaultSingleInterval
	}
	return &Processor{api: api, interval: interval}
}

// Upload submits one PDF and, on success, begins polling its status in the
// background. The returned id identifies the invoice on the backend.
func (p *Processor) Upload(ctx context.Context, file client.UploadFile, buyerGSTIN string) (string, error) {
	p.stopLoop()

	p.mu.Lock()
	p.uploading = true
	p.processing = false
	p.invoiceID = ""
	p.result = nil
	p.errMsg = ""
	p.done = nil
	p.mu.Unlock()

	invoiceID, err := p.api.UploadInvoice(ctx, file, buyerGSTIN)
	if err != nil {
		p.mu.Lock()
		p.uploading = false
		p.errMsg = err.Error()
		p.mu.Unlock()
		return "", err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.uploading = false
	p.processing = true
	p.invoiceID = invoiceID
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.pollLoop(loopCtx, invoiceID, done)
	return invoiceID, nil
}

// PollStatus issues one status fetch and records the outcome. It returns
// nil on a transport failure, with the message retained in the state.
func (p *Processor) PollStatus(ctx context.Context, invoiceID string) *model.ProcessingResult {
	result, err := pollOnce(ctx, p.api, invoiceID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.errMsg = err.Error()
		p.processing = false
		return nil
	}
	p.result = result
	if result.Terminal() {
		p.processing = false
	}
	return result
}

// pollLoop polls until the invoice reaches a terminal status or the loop
// is cancelled. The ticker is released and done closed on every exit path.
func (p *Processor) pollLoop(ctx context.Context, invoiceID string, done chan struct{}) {
	ticker := newPollTicker(p.interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		result, err := pollOnce(ctx, p.api, invoiceID)
		if ctx.Err() != nil {
			return
		}

		p.mu.Lock()
		if p.done != done {
			// A newer upload owns the state now.
			p.mu.Unlock()
			return
		}
		if err != nil {
			// Transport failure stops the single-invoice loop and leaves
			// the message for the consumer.
			p.errMsg = err.Error()
			p.processing = false
			p.mu.Unlock()
			return
		}
		p.result = result
		terminal := result.Terminal()
		if terminal {
			p.processing = false
		}
		p.mu.Unlock()

		if terminal {
			log.Printf("[Processor] invoice %s reached %s", invoiceID, result.Status)
			return
		}
	}
}

// Done returns a channel closed when the current invoice reaches a
// terminal status or the poll loop gives up. Nil before any upload.
func (p *Processor) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Wait blocks until the current invoice is terminal or ctx expires, then
// returns the last observed result.
func (p *Processor) Wait(ctx context.Context) (*model.ProcessingResult, error) {
	done := p.Done()
	if done == nil {
		return nil, context.Canceled
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	s := p.Snapshot()
	return s.Result, nil
}

// Snapshot returns a copy of the current state.
func (p *Processor) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Uploading:  p.uploading,
		Processing: p.processing,
		InvoiceID:  p.invoiceID,
		Result:     p.result,
		Err:        p.errMsg,
	}
}

// Reset cancels any active poll loop before clearing state, so no orphaned
// ticker keeps firing afterwards.
func (p *Processor) Reset() {
	p.stopLoop()

	p.mu.Lock()
	p.uploading = false
	p.processing = false
	p.invoiceID = ""
	p.result = nil
	p.errMsg = ""
	p.done = nil
	p.mu.Unlock()
}

func (p *Processor) stopLoop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
