package fakeapi

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// Server is the fake automations backend.
type Server struct {
	handlers *handlers
}

// NewServer creates a fake backend with seeded catalogs and no automations.
func NewServer() *Server {
	return &Server{handlers: newHandlers(newStore())}
}

// App builds the fiber application implementing the backend contract.
func (s *Server) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	a := app.Group("/automations")

	// Catalog routes first so "nodes" and "modules" never match ":id".
	a.Get("/nodes/types", s.handlers.listNodeTypes)
	a.Get("/modules", s.handlers.listModules)

	a.Get("/", s.handlers.listAutomations)
	a.Post("/", s.handlers.createAutomation)
	a.Get("/:id", s.handlers.getAutomation)
	a.Put("/:id", s.handlers.updateAutomation)
	a.Delete("/:id", s.handlers.deleteAutomation)
	a.Post("/:id/toggle", s.handlers.toggleAutomation)
	a.Post("/:id/execute", s.handlers.executeAutomation)

	return app
}

// Start runs the fake backend on the given port.
func (s *Server) Start(port int) error {
	return s.App().Listen(":" + strconv.Itoa(port))
}
