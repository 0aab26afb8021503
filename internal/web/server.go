package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"html/template"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"

	app "teeth-classifier/internal/application"
	"teeth-classifier/internal/domain/entity"
	"teeth-classifier/internal/domain/port"
	"teeth-classifier/internal/infrastructure/vision"
)

const (
	sessionCookie  = "sid"
	previewMaxSide = 512
	maxUploadBytes = 10 << 20
)

// Server веб-интерфейс классификатора.
type Server struct {
	app            *fiber.App
	classification *app.ClassificationService
	models         port.ModelProvider
}

// NewServer собирает fiber-приложение с маршрутами /, /classify и /health.
func NewServer(classification *app.ClassificationService, models port.ModelProvider) *Server {
	s := &Server{
		classification: classification,
		models:         models,
	}

	a := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxUploadBytes,
	})
	a.Use(logger.New())

	a.Get("/", s.index)
	a.Post("/classify", s.classify)
	a.Get("/health", s.health)

	s.app = a
	return s
}

// Listen блокируется до остановки сервера.
func (s *Server) Listen(addr string) error {
	slog.Info("web server starting", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) index(c *fiber.Ctx) error {
	sessionID(c)
	return render(c, fiber.StatusOK, pageTmpl, map[string]any{
		"Title": app.Title,
		"Intro": app.Intro,
		"Steps": app.HelpSteps,
	})
}

func (s *Server) classify(c *fiber.Ctx) error {
	sid := sessionID(c)
	ctx := c.UserContext()

	fh, err := c.FormFile("image")
	if err != nil {
		return render(c, fiber.StatusBadRequest, errorTmpl, "Please select an image file to upload.")
	}
	if !vision.IsSupportedFile(fh.Filename) {
		return render(c, fiber.StatusUnsupportedMediaType, errorTmpl, "Only jpg, jpeg and png images are supported.")
	}

	f, err := fh.Open()
	if err != nil {
		return render(c, fiber.StatusInternalServerError, errorTmpl, "Could not read the uploaded file.")
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return render(c, fiber.StatusInternalServerError, errorTmpl, "Could not read the uploaded file.")
	}

	upload, err := s.classification.Accept(ctx, sid, 0, data)
	if err != nil {
		return s.fail(c, sid, err)
	}

	var preview template.URL
	if thumb, err := vision.Preview(upload.Image, previewMaxSide); err != nil {
		slog.Warn("preview", "session", sid, "error", err)
	} else {
		preview = template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumb))
	}

	report, err := s.classification.Classify(ctx, sid, 0, upload)
	if err != nil {
		return s.fail(c, sid, err)
	}

	slog.Info("classified", "session", sid, "file", fh.Filename, "label", report.Label)
	return render(c, fiber.StatusOK, resultTmpl, map[string]any{
		"Preview": preview,
		"Report":  report,
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	if _, err := s.models.Ensure(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"kind":   entity.Kind(err),
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) fail(c *fiber.Ctx, sid string, err error) error {
	slog.Error("classification failed", "session", sid, "kind", entity.Kind(err), "error", err)
	status, text := describeError(err)
	return render(c, status, errorTmpl, text)
}

// describeError возвращает HTTP-статус и сообщение для ошибки конвейера.
func describeError(err error) (int, string) {
	switch entity.Kind(err) {
	case "load":
		return fiber.StatusServiceUnavailable, "LoadError: the classification model failed to load. The service is halted."
	case "fetch":
		return fiber.StatusBadGateway, "FetchError: the classification model could not be downloaded. Please retry later."
	case "shape":
		return fiber.StatusUnprocessableEntity, "ShapeMismatchError: the classifier is misconfigured."
	case "image":
		return fiber.StatusBadRequest, "Invalid image. Supported: JPEG, PNG."
	default:
		return fiber.StatusInternalServerError, "Classification failed."
	}
}

func sessionID(c *fiber.Ctx) string {
	sid := c.Cookies(sessionCookie)
	if _, err := uuid.Parse(sid); err == nil {
		return sid
	}

	sid = uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sid
}

func render(c *fiber.Ctx, status int, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
