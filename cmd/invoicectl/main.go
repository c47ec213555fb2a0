package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Client for the invoice data extraction service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newUploadCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newUsageCmd())
	root.AddCommand(newDemoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadClient builds the API client from the environment/config file.
func loadClient() (*config.Config, *client.InvoiceClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, client.NewInvoiceClient(&cfg.API), nil
}

// readUploadFiles loads the given paths into upload payloads.
func readUploadFiles(paths []string) ([]client.UploadFile, error) {
	files := make([]client.UploadFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, client.UploadFile{
			Name:    baseName(path),
			Content: content,
		})
	}
	return files, nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
