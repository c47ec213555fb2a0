package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/auth"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/config"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/handler"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/stub"
)

const (
	testJWTSecret = "test-secret-for-e2e"
	testUserID    = "user_e2e"

	// Short simulated extraction so polls converge quickly.
	testProcessingDelay = 20 * time.Millisecond
	testPollInterval    = 10 * time.Millisecond
)

// setupBackend boots the stub backend on an ephemeral port and returns a
// client authenticated against it.
func setupBackend(t *testing.T, quotaLimit int, delay time.Duration) *client.InvoiceClient {
	t.Helper()
	api, _ := setupBackendURL(t, quotaLimit, delay)
	return api
}

// setupBackendURL additionally exposes the base URL, for tests that build
// their own client.
func setupBackendURL(t *testing.T, quotaLimit int, delay time.Duration) (*client.InvoiceClient, string) {
	t.Helper()

	srv := stub.NewServer(stub.Config{
		JWTSecret:       testJWTSecret,
		QuotaLimit:      quotaLimit,
		ProcessingDelay: delay,
	}, handler.StubRoutes(testJWTSecret))

	baseURL, err := srv.Start()
	if err != nil {
		t.Fatalf("failed to start stub backend: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown() })

	token, err := auth.MintToken(testUserID, testUserID+"@example.com", testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	return client.NewInvoiceClient(&config.APIConfig{
		BaseURL: baseURL,
		Token:   token,
		Timeout: 10,
	}), baseURL
}

// pdfFile builds an upload the stub accepts and completes.
func pdfFile(name string) client.UploadFile {
	return client.UploadFile{
		Name:    name,
		Content: []byte("%PDF-1.4 minimal invoice body"),
	}
}

// failingPDF builds an upload the stub accepts but fails during extraction.
func failingPDF(name string) client.UploadFile {
	return client.UploadFile{
		Name:    name,
		Content: []byte("%PDF-1.4 FAIL marker"),
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
