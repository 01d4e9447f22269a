package main

import (
	"context"
	"log"
	"os"

	"github.com/example/taskflow/modules/api"
	"github.com/example/taskflow/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Taskflow - Personal Task Tracker ===")

	cfg := loadConfig()
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == "error" {
		logLevel = mono.LogLevelError
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: the task module owns the store, the API module depends on it
	if err := app.Register(task.NewModule(cfg.taskConfig(), app.Logger())); err != nil {
		log.Fatalf("Failed to register task module: %v", err)
	}
	if err := app.Register(api.NewModule(cfg.apiConfig(), app.Logger())); err != nil {
		log.Fatalf("Failed to register api module: %v", err)
	}

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("Store: %s", cfg.DBDriver)
	if cfg.DBDriver == task.DriverSQLite {
		log.Printf("  Database file: %s", cfg.DBPath)
	}
	log.Println("")
	log.Printf("REST API Endpoints (%s):", cfg.HTTPAddr)
	log.Println("  GET    /api/tasks/active        - List active tasks")
	log.Println("  GET    /api/tasks/history       - List completed tasks")
	log.Println("  POST   /api/tasks               - Create a task")
	log.Println("  PATCH  /api/tasks/:id/complete  - Mark a task completed")
	log.Println("  PUT    /api/tasks/:id           - Update title and description")
	log.Println("  DELETE /api/tasks/:id           - Delete a task")
	log.Println("  GET    /health                  - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
