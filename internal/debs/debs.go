package deps

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhafner/sportmate_api/config"
	"github.com/jhafner/sportmate_api/internal/db"
	"github.com/jhafner/sportmate_api/internal/http/expopush"
	"github.com/jhafner/sportmate_api/util/realtime"
	"github.com/jhafner/sportmate_api/util/storage"
)

type Dependencies struct {
	DB         *db.DB
	Cloudinary *storage.Cloudinary
	Realtime   *realtime.Hub
	Push       *expopush.Client
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	hub := realtime.NewHub()
	push := expopush.NewClient(cfg.ExpoPushURL)

	deps := Dependencies{
		DB:         database,
		Cloudinary: cloudinary,
		Realtime:   hub,
		Push:       push,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
