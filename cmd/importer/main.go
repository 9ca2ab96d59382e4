package main

import (
	"flag"
	"log"
	"os"

	"surf-storefront/internal/importer"
)

func main() {
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	inPath := flag.String("in", "", "path to the JSON menu export")
	outPath := flag.String("out", "menu.yaml", "path to write the YAML menu")
	flag.Parse()

	if *inPath == "" {
		logger.Fatal("-in is required")
	}

	if err := importer.Run(*inPath, *outPath); err != nil {
		logger.Fatalf("import: %v", err)
	}

	logger.Printf("menu written to %s", *outPath)
}
