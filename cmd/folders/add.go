package main

import (
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"
	"vimeometa/internal/app/infrastructure/config"
)

// Adds folder names to filter.folder_names, e.g. `folders -config config.json ward,lemon`.
func main() {
	configPath := flag.String("config", "config.json", "path to config.json")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: folders [-config path] name[,name...]")
	}

	manager, err := config.New(*configPath)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var added []string
	err = manager.Update(func(cfg *config.Config) {
		for _, arg := range flag.Args() {
			for _, name := range strings.Split(arg, ",") {
				name = strings.TrimSpace(name)
				if name == "" || slices.Contains(cfg.Filter.FolderNames, name) {
					continue
				}
				cfg.Filter.FolderNames = append(cfg.Filter.FolderNames, name)
				added = append(added, name)
			}
		}
	})
	if err != nil {
		log.Fatal("Error updating config: ", err)
	}

	fmt.Printf("добавлено папок: %d %v\n", len(added), added)
}
