package routes

import (
	"errors"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"deadstock/config"
	"deadstock/handlers"
	"deadstock/logging"
	"deadstock/middleware"
	"deadstock/models"
)

// NewApp builds the Fiber application with its middleware stack and every route.
func NewApp(cfg config.ServerConfig, h *handlers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "deadstock",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.RequestMetrics)

	SetupRoutes(app, h)
	return app
}

// errorHandler answers errors that escape handlers (unknown routes, body limit, panics) in the API envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Path()).Str("request_id", requestID(c)).Msg("[HTTP] unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   models.ErrorBody{Code: errorCode(code), Message: message},
	})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "INPUT_VALIDATION"
	default:
		if status < fiber.StatusInternalServerError {
			return "BAD_REQUEST"
		}
		return "INTERNAL"
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
