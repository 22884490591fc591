package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/jt828/go-graphql-tracing/pkg/observability/implementation"
	"github.com/spf13/pflag"
)

func main() {
	direction := pflag.StringP("direction", "d", "up", "migration direction: up or down")
	steps := pflag.IntP("steps", "n", 0, "number of steps to migrate (0 = all)")
	source := pflag.String("source", "file://migrations", "migration source url")
	dsn := pflag.String("dsn", os.Getenv("DATABASE_DSN"), "postgres dsn, defaults to $DATABASE_DSN")
	pflag.Parse()

	log, err := implementation.NewZapLogger(implementation.LogConfig{Level: "info"})
	if err != nil {
		panic(err)
	}

	if *dsn == "" {
		log.Fatal("--dsn or DATABASE_DSN is required")
	}
	if *steps < 0 {
		log.Fatal("steps must not be negative", observability.Int("steps", *steps))
	}

	m, err := migrate.New(*source, *dsn)
	if err != nil {
		log.Fatal("failed to create migrate instance", observability.Err(err))
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		log.Fatal("unknown direction", observability.String("direction", *direction))
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal("migration failed", observability.Err(err))
	}

	log.Info("migration completed",
		observability.String("direction", *direction),
		observability.Int("steps", *steps),
	)
}
