package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/auth"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/handler"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/processor"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/service"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/stub"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status INVOICE_ID",
		Short: "Fetch the current processing status of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := loadClient()
			if err != nil {
				return err
			}
			record, err := api.GetInvoice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(processor.MapInvoiceRecord(record))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := loadClient()
			if err != nil {
				return err
			}
			list, err := api.ListInvoices(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			fmt.Printf("%d invoice(s), showing page %d\n", list.Total, page)
			for _, inv := range list.Invoices {
				seller := "-"
				if inv.SellerName != nil {
					seller = *inv.SellerName
				}
				fmt.Printf("%s  %-10s  %-30s  %s\n", inv.ID, inv.Status, seller, inv.OriginalFilename)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Invoices per page")
	return cmd
}

func newDownloadCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "download INVOICE_ID",
		Short: "Download extracted data for a completed invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, api, err := loadClient()
			if err != nil {
				return err
			}
			exports := service.NewExportService(api)
			path, err := exports.Download(cmd.Context(), args[0], model.OutputFormat(format), cfg.Output.Dir)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, xml or csv")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete INVOICE_ID",
		Short: "Delete an invoice and its stored PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := loadClient()
			if err != nil {
				return err
			}
			if err := api.DeleteInvoice(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted invoice %s\n", args[0])
			return nil
		},
	}
}

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show subscription plan and quota usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := loadClient()
			if err != nil {
				return err
			}
			info, err := service.NewSubscriptionService(api).Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Plan: %s (%s)\n", info.Plan, info.Subscription.Status)
			fmt.Printf("Usage: %d/%d this month", info.Usage.Used, info.Usage.Limit)
			if !info.Usage.Allowed {
				fmt.Printf(" (limit reached)")
			}
			fmt.Println()
			return nil
		},
	}
}

func newDemoCmd() *cobra.Command {
	var (
		addr       string
		quota      int
		delayMs    int
		jwtSecret  string
		demoUserID string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a local stand-in extraction backend for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := stub.NewServer(stub.Config{
				JWTSecret:       jwtSecret,
				QuotaLimit:      quota,
				ProcessingDelay: time.Duration(delayMs) * time.Millisecond,
			}, handler.StubRoutes(jwtSecret))

			token, err := auth.MintToken(demoUserID, demoUserID+"@example.com", jwtSecret, 24*time.Hour)
			if err != nil {
				return err
			}
			fmt.Printf("Stub backend listening on %s\n", addr)
			fmt.Printf("export INVOICE_API_URL=http://%s\n", addr)
			fmt.Printf("export INVOICE_API_TOKEN=%s\n", token)
			return srv.Listen(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().IntVar(&quota, "quota", 100, "Monthly invoice quota")
	cmd.Flags().IntVar(&delayMs, "delay-ms", 3000, "Simulated processing time")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "demo-secret", "HMAC secret for demo tokens")
	cmd.Flags().StringVar(&demoUserID, "user", "demo-user", "User id embedded in the demo token")
	return cmd
}
