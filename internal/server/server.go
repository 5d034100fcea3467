package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gamecatalog/internal/app"
	"gamecatalog/internal/handlers"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server")

	config := fiber.Config{
		ServerHeader: fmt.Sprintf(
			"GameCatalog/%s",
			app.Config.GeneralVersion,
		),
		AppName:               "game_catalog_server",
		BodyLimit:             1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		EnablePrintRoutes:     false,
		ErrorHandler:          handlers.ErrorHandler,
	}

	if app.Config.Environment == "development" {
		log.Info("Enabling development mode")
		config.DisableStartupMessage = false
		config.EnablePrintRoutes = true
	}

	server := fiber.New(config)

	server.Use(recover.New())

	server.Use(cors.New(cors.Config{
		AllowOrigins:  app.Config.CorsAllowOrigins,
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, X-Trace-ID",
		MaxAge:        300,
		ExposeHeaders: "X-Trace-ID",
	}))

	server.Use(app.Middleware.TraceID())
	server.Use(fiberLogs.New(fiberLogs.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${respHeader:X-Trace-ID}\n",
	}))
	server.Use(compress.New())

	server.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	fiberApp := &AppServer{
		FiberApp: server,
		log:      log,
	}

	if err := handlers.Router(server, app); err != nil {
		return &AppServer{}, log.Err("failed to initialize handlers", err)
	}

	fiberApp.serveStatic(app.Config.StaticDir)

	server.Use(handlers.RouteNotFound)

	return fiberApp, nil
}

// serveStatic mounts the browser frontend at the root when its directory exists.
func (s *AppServer) serveStatic(dir string) {
	log := s.log.Function("serveStatic")

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Info("Static directory not found, frontend disabled", "dir", dir)
		return
	}

	s.FiberApp.Static("/", dir, fiber.Static{
		Compress: true,
		Index:    "index.html",
	})
	log.Info("Serving static frontend", "dir", dir)
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port == 0 {
		return log.Error(
			"Fatal error: invalid port",
			"port", port,
		)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
