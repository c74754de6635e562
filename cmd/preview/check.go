package main

import (
	"flag"
	"github.com/tidwall/gjson"
	"log"
	"os"
	"vimeometa/internal/app/adapters/csv_writer"
	"vimeometa/internal/app/domain/table"
	"vimeometa/internal/app/infrastructure/config"
	"vimeometa/internal/pkg/app"
	"vimeometa/pkg/logger"
)

// Runs a saved /me/videos page through the configured filters and prints the CSV
// without calling the API: `preview -config config.json page.json`.
func main() {
	configPath := flag.String("config", "config.json", "path to config.json")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: preview [-config path] page.json")
	}

	manager, err := config.New(*configPath)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	cfg := manager.Get()

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal("Error reading page: ", err)
	}
	if !gjson.ValidBytes(raw) {
		log.Fatal("Error reading page: invalid JSON")
	}

	var records []*table.Record
	var parseErr error
	gjson.GetBytes(raw, "data").ForEach(func(_, item gjson.Result) bool {
		rec, err := table.FromJSON(item)
		if err != nil {
			parseErr = err
			return false
		}
		records = append(records, rec)
		return true
	})
	if parseErr != nil {
		log.Fatal("Error parsing page: ", parseErr)
	}

	lg := logger.New(logger.Options{Stdout: os.Stderr})
	lg.SetLogLevel(cfg.App.LogLevel)

	cleaned := app.NewPipeline(lg, cfg, nil, nil).Transform(records)
	renamed, err := cleaned.Rename(cfg.Output.Rename)
	if err != nil {
		lg.Fatal("Error renaming columns", err)
	}

	if err := csv_writer.Encode(os.Stdout, renamed); err != nil {
		lg.Fatal("Error writing CSV", err)
	}
}
