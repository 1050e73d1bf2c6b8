package api

import (
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed static/index.html
var static embed.FS

// NewApp returns a fiber app that accepts bodies well past maxUploadBytes, so
// oversized uploads reach the handler and get a "file too large" answer.
// Bodies beyond even that are answered by the error handler.
func NewApp(maxUploadBytes int64) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "LegalEase",
		BodyLimit:             int(4*maxUploadBytes) + 1<<20,
		ErrorHandler:          errorHandler(maxUploadBytes),
		DisableStartupMessage: true,
	})
}

// errorHandler answers errors no route handled with the same JSON shape as
// the analyze endpoint.
func errorHandler(maxUploadBytes int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := fiber.StatusInternalServerError, "Analysis failed. Please try again."
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status, msg = fe.Code, fe.Message
		}
		if status == fiber.StatusRequestEntityTooLarge {
			status, msg = fiber.StatusBadRequest, tooLargeMessage(maxUploadBytes)
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}

// SetupRouter registers routes. metrics may be nil.
func SetupRouter(app *fiber.App, handler *AnalyzeHandler, metrics http.Handler, log *zap.Logger) {
	// Middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(recover.New())
	app.Use(accessLog(log))

	app.Get("/", func(c *fiber.Ctx) error {
		page, err := static.ReadFile("static/index.html")
		if err != nil {
			return err
		}
		c.Type("html", "utf-8")
		return c.Send(page)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	app.Post("/analyze", handler.HandleAnalyze)
}

func accessLog(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		fields := []zap.Field{
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", c.IP()),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("http_request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("http_request", fields...)
		default:
			log.Info("http_request", fields...)
		}
		return err
	}
}
