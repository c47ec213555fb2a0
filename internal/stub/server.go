package stub

import (
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{10}[0-9A-Z]{3}$`)

// Config controls the stub backend's behavior.
type Config struct {
	JWTSecret       string
	QuotaLimit      int
	ProcessingDelay time.Duration
}

// Server is the runnable stub backend.
type Server struct {
	app   *fiber.App
	store *Store
}

// NewValidator builds the shared validator with the gstin rule registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return gstinPattern.MatchString(fl.Field().String())
	})
	return v
}

// routeRegistrar wires the API routes onto the fiber app. It is satisfied
// by the handler package; indirection keeps stub free of an import cycle.
type routeRegistrar func(app *fiber.App, store *Store)

// NewServer creates the stub backend with the given route wiring.
func NewServer(cfg Config, register routeRegistrar) *Server {
	store := NewStore(cfg.QuotaLimit, cfg.ProcessingDelay)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             50 * 1024 * 1024,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	register(app, store)

	return &Server{app: app, store: store}
}

// Store exposes the underlying store, mainly for tests.
func (s *Server) Store() *Store {
	return s.store
}

// Listen serves on the given address, blocking until shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Start binds a local listener on an ephemeral port, serves in the
// background and returns the base URL.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to bind stub listener: %w", err)
	}
	go func() {
		_ = s.app.Listener(ln)
	}()
	return fmt.Sprintf("http://%s", ln.Addr().String()), nil
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
