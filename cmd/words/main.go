// Command words loads and dumps the word catalog.
//
//	words import -valid valid.txt -solutions answers.json
//	words export -output words.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"guessme/internal/config"
	"guessme/internal/database"
	"guessme/internal/logging"
	"guessme/internal/service"

	"go.uber.org/zap"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: words_YYYYMMDD_HHMMSS.json)")

	importValid := importCmd.String("valid", "", "File of guessable words, one per line or a JSON array")
	importSolutions := importCmd.String("solutions", "", "File of solution words, one per line or a JSON array")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(logging.Config{Level: cfg.LogLevel, Dev: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	log := logger.Sugar()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalw("Failed to run migrations", "error", err)
	}

	catalog := service.NewCatalogService(db, log.Named("catalog"))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := handleExport(ctx, catalog, *exportOutput, log); err != nil {
			log.Fatalw("Export failed", "error", err)
		}

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importValid == "" && *importSolutions == "" {
			fmt.Println("Error: at least one of -valid or -solutions is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := handleImport(ctx, catalog, *importValid, *importSolutions, log); err != nil {
			log.Fatalw("Import failed", "error", err)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, catalog *service.CatalogService, outputPath string, log *zap.SugaredLogger) error {
	if outputPath == "" {
		outputPath = fmt.Sprintf("words_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	words, err := catalog.Export(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	log.Infow("Export complete", "path", outputPath, "words", len(words))
	return nil
}

func handleImport(ctx context.Context, catalog *service.CatalogService, validPath, solutionsPath string, log *zap.SugaredLogger) error {
	var valid, solutions []string
	var err error
	if validPath != "" {
		if valid, err = readWordList(validPath); err != nil {
			return err
		}
	}
	if solutionsPath != "" {
		if solutions, err = readWordList(solutionsPath); err != nil {
			return err
		}
	}

	result, err := catalog.Import(ctx, valid, solutions)
	if err != nil {
		return err
	}

	log.Infow("Import complete",
		"added", result.Added,
		"existing", result.Existing,
		"skipped", result.Skipped,
	)
	return nil
}

func printUsage() {
	fmt.Println("Word catalog tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  words export [-output FILE]")
	fmt.Println("  words import [-valid FILE] [-solutions FILE]")
	fmt.Println()
	fmt.Println("Word files hold one word per line or a JSON array of strings.")
	fmt.Println("Database settings come from DB_TYPE, DB_PATH and DATABASE_URL.")
}
