package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/mabego/smartpantry-mysql/internal/dataset"
	"github.com/mabego/smartpantry-mysql/migrations"
)

func main() {
	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	if err := godotenv.Load(); err == nil {
		infoLog.Print("Loaded environment from .env")
	}

	dsn := flag.String("dsn", os.Getenv("PANTRY_DSN"), "MySQL data source name")
	csvPath := flag.String("csv", "dataset/cuisines.csv", "Recipe dataset in CSV format")
	migrate := flag.Bool("migrate", true, "Apply database migrations before loading")

	flag.Parse()

	if err := run(*dsn, *csvPath, *migrate, infoLog); err != nil {
		errorLog.Fatal(err)
	}
}

func run(dsn, csvPath string, migrate bool, infoLog *log.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	recipes, err := dataset.Parse(f)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("database pool initialization: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection: %w", err)
	}

	if migrate {
		if err := migrations.Up(db); err != nil {
			return err
		}
	}

	store, err := dataset.NewSQLStore(db)
	if err != nil {
		return err
	}

	stats, err := dataset.Load(store, recipes)
	if err != nil {
		return err
	}

	infoLog.Printf("Loaded %d recipes and %d ingredients (%d ingredient lines skipped)",
		stats.Recipes, stats.Ingredients, stats.Skipped)

	return nil
}
