package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// LocalSession is the request local handlers set to the session id they act on.
const LocalSession = "session"

// ============================================================
// Logger Middleware
// ============================================================

// Logger logs one line per request with the session it touched, if any.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} session=${locals:" + LocalSession + "} ${bytesSent}B ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
