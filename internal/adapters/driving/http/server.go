// Package http serves the membox JSON API over fiber.
package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Ports aggregates the driving ports the API exposes.
type Ports struct {
	Index    driving.IndexService
	Search   driving.SearchService
	Related  driving.RelatedService
	Document driving.DocumentService
}

// Server wraps the fiber app serving the API.
type Server struct {
	ports   Ports
	version string
	app     *fiber.App
}

// NewServer builds the app and registers every route.
// Routes whose port is nil answer 503.
func NewServer(ports Ports, version string) *Server {
	s := &Server{ports: ports, version: version}

	s.app = fiber.New(fiber.Config{
		AppName:      "membox",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		ErrorHandler: errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(fiber.Ctx) bool { return !logger.IsVerbose() },
	}))

	s.app.Get("/health", s.health)
	s.app.Post("/ingest", s.requireIndex, s.ingest)
	s.app.Post("/reindex", s.requireIndex, s.reindex)
	s.app.Post("/search", s.requireSearch, s.search)
	s.app.Post("/related", s.requireRelated, s.related)
	s.app.Get("/documents", s.requireDocuments, s.listDocuments)
	s.app.Get("/documents/:id", s.requireDocuments, s.getDocument)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("http: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
	})
}

func unavailable(name string) error {
	return fiber.NewError(fiber.StatusServiceUnavailable, name+" service not configured")
}

func (s *Server) requireIndex(c fiber.Ctx) error {
	if s.ports.Index == nil {
		return unavailable("index")
	}
	return c.Next()
}

func (s *Server) requireSearch(c fiber.Ctx) error {
	if s.ports.Search == nil {
		return unavailable("search")
	}
	return c.Next()
}

func (s *Server) requireRelated(c fiber.Ctx) error {
	if s.ports.Related == nil {
		return unavailable("related")
	}
	return c.Next()
}

func (s *Server) requireDocuments(c fiber.Ctx) error {
	if s.ports.Document == nil {
		return unavailable("document")
	}
	return c.Next()
}
