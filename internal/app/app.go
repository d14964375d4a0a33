// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/http"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/session"
	"github.com/rs/zerolog/log"
)

// Application is the wired service: the HTTP router plus the resources that
// must be released once it stops serving.
type Application struct {
	Router  *gin.Engine
	closers []closer
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*Application, error) {
	// Logger first; everything below logs during startup.
	InitializeLogger(cfg.Log)

	dbComponents := InitializeDatabase(cfg.Database)

	serviceComponents, err := InitializeServices(cfg, dbComponents)
	if err != nil {
		if dbComponents != nil {
			_ = dbComponents.Close(context.Background())
		}
		return nil, err
	}

	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	application := &Application{
		Router: http.NewRouter(routerComponents.Handlers, routerComponents.HealthHandler, routerComponents.Config),
	}

	// Release order matters: the log buffer flushes into MongoDB, so the
	// client is disconnected last.
	application.onClose("async_logger", func(context.Context) error {
		middleware.StopAsyncLogger()
		return nil
	})
	if redisStore, ok := serviceComponents.Sessions.(*session.RedisStore); ok {
		application.onClose("redis", func(context.Context) error { return redisStore.Close() })
	}
	if dbComponents != nil && dbComponents.Close != nil {
		application.onClose("mongodb", dbComponents.Close)
	}

	return application, nil
}

func (a *Application) onClose(name string, fn func(ctx context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Close releases every resource in registration order. It keeps going after
// a failure and reports all of them.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			log.Error().Err(err).Str("resource", c.name).Msg("Failed to release resource")
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		log.Debug().Str("resource", c.name).Msg("Released resource")
	}
	a.closers = nil
	return errors.Join(errs...)
}
