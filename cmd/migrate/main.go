// migrate aplica o revierte las migraciones embebidas.
//
// Uso: go run ./cmd/migrate [up|down|version]
// Por defecto ejecuta "up". Lee la conexión de DATABASE_URL o DB_*.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/encomiendas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/encomiendas-api/pkg/config"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("versión %d (dirty=%t)\n", version, dirty)
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up, down, version)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migraciones")
	}
}
