package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/terraincognita07/dosalabel/internal/config"
	"github.com/terraincognita07/dosalabel/internal/db"
	"github.com/terraincognita07/dosalabel/internal/services"
)

// Context is passed to every command's Run method.
type Context struct {
	Config *config.Config
	Logger *log.Logger
	Stdout io.Writer
	Stdin  *os.File
}

func (ctx *Context) OpenStore(parent context.Context) (*db.Repositories, error) {
	storage := ctx.Config.Storage
	repositories, err := db.OpenRepositories(parent, db.StoreOptions{
		Backend: storage.Backend,
		DBPath:  storage.DBPath,
		Redis: db.RedisOptions{
			Addr:     storage.RedisAddr,
			Password: storage.RedisPassword,
			DB:       storage.RedisDB,
		},
		Logger: ctx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", storage.Backend, err)
	}
	return repositories, nil
}

func (ctx *Context) Location() (*time.Location, error) {
	location, err := ctx.Config.Server.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", ctx.Config.Server.Timezone, err)
	}
	return location, nil
}

func (ctx *Context) NewLabelService(store services.LabelStateStore, location *time.Location) *services.LabelService {
	return services.NewLabelService(store, services.LabelServiceOptions{
		Defaults: ctx.Config.LabelDefaults(),
		StateKey: ctx.Config.Storage.StateKey,
		Location: location,
		Logger:   ctx.Logger.WithPrefix("label"),
	})
}
