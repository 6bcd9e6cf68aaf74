package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/waulty/internal/admin"
	"github.com/dmitrijs2005/waulty/internal/server/config"
	"github.com/dmitrijs2005/waulty/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/waulty/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	cmd, args := admin.SplitCommand(os.Args[1:])

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	migrate := func(ctx context.Context) error { return rm.RunMigrations(ctx, db) }

	cli := admin.NewCLI(services.NewUserService(db, rm, cfg), migrate, os.Stdin, os.Stdout)
	if err := cli.Run(ctx, cmd, args); err != nil {
		db.Close()
		log.Fatalf("%v", err)
	}

}
