package e2e

import (
	"testing"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/processor"
)

func TestBatch_MixedOutcomesToJointCompletion(t *testing.T) {
	api := setupBackend(t, 10, testProcessingDelay)
	ctx := testContext(t)

	b := processor.NewBatch(api, testPollInterval)
	outcome, err := b.Upload(ctx, []client.UploadFile{
		pdfFile("a.pdf"),
		pdfFile("b.pdf"),
		failingPDF("c.pdf"),
	}, "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if outcome.Accepted != 3 {
		t.Fatalf("accepted = %d, want 3", outcome.Accepted)
	}

	completed, err := b.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(completed) != 3 {
		t.Fatalf("completed = %d entries, want 3", len(completed))
	}

	var succeeded, failed int
	for id, result := range completed {
		switch result.Status {
		case model.StatusCompleted:
			succeeded++
			if result.InvoiceData == nil {
				t.Errorf("invoice %s completed without data", id)
			}
		case model.StatusFailed:
			failed++
			if result.Error == nil {
				t.Errorf("invoice %s failed without an error", id)
			}
		default:
			t.Errorf("invoice %s left non-terminal: %s", id, result.Status)
		}
	}
	if succeeded != 2 || failed != 1 {
		t.Errorf("succeeded=%d failed=%d, want 2/1", succeeded, failed)
	}

	state := b.Snapshot()
	if !state.Done {
		t.Error("batch should report done")
	}
	if len(state.Pending) != 0 {
		t.Errorf("pending = %v, want empty", state.Pending)
	}
}

func TestBatch_PartialRejection(t *testing.T) {
	api := setupBackend(t, 10, testProcessingDelay)
	ctx := testContext(t)

	b := processor.NewBatch(api, testPollInterval)
	outcome, err := b.Upload(ctx, []client.UploadFile{
		pdfFile("good.pdf"),
		{Name: "notes.txt", Content: []byte("plain text")},
	}, "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if outcome.Accepted != 1 || outcome.Total != 2 {
		t.Fatalf("outcome accepted=%d total=%d", outcome.Accepted, outcome.Total)
	}

	var rejected *model.BatchFileResult
	for i := range outcome.Results {
		if !outcome.Results[i].Success {
			rejected = &outcome.Results[i]
		}
	}
	if rejected == nil || rejected.Filename != "notes.txt" {
		t.Fatalf("rejected entry = %+v", rejected)
	}
	if rejected.Error == nil || *rejected.Error != "Only PDF files are supported" {
		t.Errorf("rejection reason = %v", rejected.Error)
	}

	// Only the accepted file is polled to completion.
	completed, err := b.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("completed = %d entries, want 1", len(completed))
	}
}

func TestBatch_QuotaCountsEachAcceptedFile(t *testing.T) {
	api := setupBackend(t, 10, testProcessingDelay)
	ctx := testContext(t)

	b := processor.NewBatch(api, testPollInterval)
	if _, err := b.Upload(ctx, []client.UploadFile{pdfFile("a.pdf"), pdfFile("b.pdf")}, ""); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := b.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	info, err := api.GetSubscription(ctx)
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if info.Usage.Used != 2 {
		t.Errorf("usage.used = %d, want 2", info.Usage.Used)
	}
}
