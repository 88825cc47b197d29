package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"massimino/fitness-platform/internal/config"
	"massimino/fitness-platform/internal/repository/mongo"
	"massimino/fitness-platform/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seeds the program catalog from a directory of authored template documents.
// Re-running is safe: each file maps to a fixed program id derived from its
// name, so templates are upserted and their phase trees rebuilt in place.
func main() {
	var dir string
	flag.StringVar(&dir, "dir", "seed/templates", "directory of template JSON files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Error("could not connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	resolver := service.NewExerciseResolver(exerciseRepo, logger)
	catalog := service.NewCatalogService(programRepo, resolver, logger)

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		logger.Error("failed to list template files", "dir", dir, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Warn("no template files found", "dir", dir)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	seeded, skipped := 0, 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("skipping unreadable file", "file", file, "error", err)
			skipped++
			continue
		}

		programID := programIDForFile(filepath.Base(file))
		doc, err := catalog.IngestTemplate(ctx, programID, data, nil)
		if err != nil {
			logger.Warn("skipping template", "file", file, "error", err)
			skipped++
			continue
		}

		logger.Info("seeded program",
			"file", filepath.Base(file), "program", programID.Hex(),
			"kind", doc.Kind, "name", doc.Name)
		seeded++
	}

	logger.Info("seeding finished", "seeded", seeded, "skipped", skipped)
}

// programIDForFile derives a stable ObjectID from the file name so repeated
// runs upsert the same program instead of duplicating it.
func programIDForFile(name string) primitive.ObjectID {
	sum := sha256.Sum256([]byte(name))
	var id primitive.ObjectID
	copy(id[:], sum[:12])
	return id
}
