package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/processor"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/service"
)

type uploadOptions struct {
	buyerGSTIN string
	wait       time.Duration
}

func newUploadCmd() *cobra.Command {
	o := &uploadOptions{}
	cmd := &cobra.Command{
		Use:   "upload FILE [FILE...]",
		Short: "Upload one or more PDF invoices and watch them to completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&o.buyerGSTIN, "buyer-gstin", "", "Buyer GSTIN to attach to the upload")
	cmd.Flags().DurationVar(&o.wait, "wait", 0, "Give up waiting after this duration (0 waits indefinitely)")
	return cmd
}

func (o *uploadOptions) run(ctx context.Context, paths []string) error {
	cfg, api, err := loadClient()
	if err != nil {
		return err
	}

	files, err := readUploadFiles(paths)
	if err != nil {
		return err
	}

	// Advisory client-side gate; the backend enforces the quota too.
	subscriptions := service.NewSubscriptionService(api)
	if usage, err := subscriptions.CheckQuota(ctx); err != nil {
		if errors.Is(err, service.ErrQuotaExhausted) {
			fmt.Printf("Monthly invoice limit reached (%d/%d). Upgrade to Pro for unlimited invoices.\n",
				usage.Used, usage.Limit)
			return err
		}
		return err
	}

	if o.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.wait)
		defer cancel()
	}

	if len(files) == 1 {
		return o.runSingle(ctx, cfg.Poll.SingleInterval(), files[0], api)
	}
	return o.runBatch(ctx, cfg.Poll.BatchInterval(), files, api)
}

func (o *uploadOptions) runSingle(ctx context.Context, interval time.Duration, file client.UploadFile, api client.InvoiceAPI) error {
	proc := processor.New(api, interval)
	defer proc.Reset()

	invoiceID, err := proc.Upload(ctx, file, o.buyerGSTIN)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s as invoice %s, processing...\n", file.Name, invoiceID)

	result, err := proc.Wait(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		if s := proc.Snapshot(); s.Err != "" {
			return errors.New(s.Err)
		}
		return errors.New("processing did not finish")
	}
	printResult(result)
	return nil
}

func (o *uploadOptions) runBatch(ctx context.Context, interval time.Duration, files []client.UploadFile, api client.InvoiceAPI) error {
	batch := processor.NewBatch(api, interval)
	defer batch.Reset()

	outcome, err := batch.Upload(ctx, files, o.buyerGSTIN)
	if err != nil {
		return err
	}
	for _, r := range outcome.Results {
		if r.Success {
			fmt.Printf("Accepted %s as invoice %s\n", r.Filename, *r.InvoiceID)
		} else {
			fmt.Printf("Rejected %s: %s\n", r.Filename, *r.Error)
		}
	}
	if outcome.Accepted == 0 {
		return errors.New("no files accepted")
	}

	fmt.Printf("Processing %d invoice(s)...\n", outcome.Accepted)
	completed, err := batch.Wait(ctx)
	if err != nil {
		return err
	}

	// Completion order is poll order; re-sort for stable output.
	ids := make([]string, 0, len(completed))
	for id := range completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		printResult(completed[id])
	}
	return nil
}

func printResult(result *model.ProcessingResult) {
	switch result.Status {
	case model.StatusCompleted:
		fmt.Printf("Invoice %s completed", result.InvoiceID)
		if d := result.InvoiceData; d != nil {
			fmt.Printf(": %s / bill %s / total %.2f", d.SellerName, d.BillNo, d.TotalAmount)
			if !d.ValidationPassed {
				fmt.Printf(" (validation errors: %d)", len(d.ValidationErrors))
			}
		}
		fmt.Println()
	case model.StatusFailed:
		fmt.Printf("Invoice %s failed: %s\n", result.InvoiceID, result.Error.Message)
		if result.Error.Details != "" {
			fmt.Printf("  details: %s\n", result.Error.Details)
		}
	default:
		fmt.Printf("Invoice %s is %s\n", result.InvoiceID, result.Status)
	}
}
