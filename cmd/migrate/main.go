// Command migrate converts legacy per-student routine series (day -> routine
// id) into single routines keyed by weekday. Already migrated series are
// skipped, so it is safe to run more than once.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"gymdesk/routine-admin/internal/config"
	"gymdesk/routine-admin/internal/repository/mongo"
	"gymdesk/routine-admin/internal/service"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would be migrated without writing")
	configPath := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	migrations := service.NewMigrationService(
		mongo.NewMongoRoutineSeriesRepository(appDB),
		mongo.NewMongoRoutineRepository(appDB),
		mongo.NewMongoExerciseRepository(appDB),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *dryRun {
		log.Println("INFO: Dry run, nothing will be written")
	}
	report, err := migrations.MigrateRoutineSeries(ctx, *dryRun)
	if err != nil {
		log.Fatalf("FATAL: Routine series migration failed: %v", err)
	}
	log.Printf("INFO: %s", report)
}
