// Command import_csv loads a customer roster CSV into the configured store.
//
//	go run ./cmd/scripts <restaurantId> <roster.csv>
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ArowuTest/loyalty-admin-backend/internal/config"
	"github.com/ArowuTest/loyalty-admin-backend/internal/utils"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	mongorepo "github.com/ArowuTest/loyalty-admin-backend/internal/repositories/mongodb"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables")
	}
	if len(os.Args) < 3 {
		slog.Error("usage: import_csv <restaurantId> <roster.csv>")
		os.Exit(2)
	}
	restaurantID, csvFilePath := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Store != config.StoreMongo {
		slog.Error("Import needs the mongo store; set LOYALTY_STORE=mongo")
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	file, err := os.Open(csvFilePath)
	if err != nil {
		slog.Error("Failed to open CSV file", "path", csvFilePath, "error", err)
		os.Exit(1)
	}
	defer file.Close()

	customers := mongorepo.NewCustomerRepository(client.Database(cfg.MongoDB.Database))
	result, err := utils.NewCustomerImporter(customers, loc).Import(ctx, restaurantID, file)
	if err != nil {
		slog.Error("Failed to import customers", "error", err)
		os.Exit(1)
	}

	slog.Info("Customers imported", "restaurantId", restaurantID, "rows", result.TotalRows,
		"created", result.Created, "updated", result.Updated, "errors", len(result.Errors))
	_ = json.NewEncoder(os.Stdout).Encode(result)
}
