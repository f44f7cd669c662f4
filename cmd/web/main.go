package main

import (
	"database/sql"
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/form/v4"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/mabego/smartpantry-mysql/internal/guard"
	"github.com/mabego/smartpantry-mysql/internal/models"
	"github.com/mabego/smartpantry-mysql/internal/tokens"
	"github.com/mabego/smartpantry-mysql/migrations"
)

const (
	IdleTimeout     = time.Minute
	ReadTimeout     = 5 * time.Second
	SessionLifetime = 12 * time.Hour
	TokenLifetime   = 12 * time.Hour
	WriteTimeout    = 10 * time.Second
)

type application struct {
	debug          bool
	errorLog       *log.Logger
	infoLog        *log.Logger
	users          models.UserModelInterface
	ingredients    models.IngredientModelInterface
	pantry         models.PantryModelInterface
	recipes        models.RecipeModelInterface
	templateCache  map[string]*template.Template
	formDecoder    *form.Decoder
	sessionManager *scs.SessionManager
	tokenStore     guard.Storage
	guard          *guard.Guard
	tokens         *tokens.Manager
}

func main() {
	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	// A missing .env file is fine; flags and the process environment still apply.
	if err := godotenv.Load(); err == nil {
		infoLog.Print("Loaded environment from .env")
	}

	addr := flag.String("addr", envString("PANTRY_ADDR", ":5001"), "HTTP network address")
	dsn := flag.String("dsn", envString("PANTRY_DSN", ""), "MySQL data source name")
	debug := flag.Bool("debug", envBool("PANTRY_DEBUG", false), "Enable debug mode in the browser")
	secret := flag.String("jwt-secret", envString("JWT_SECRET_KEY", ""), "Secret used to sign access tokens")
	tokenTTL := flag.Duration("token-ttl", envDuration("PANTRY_TOKEN_TTL", TokenLifetime), "Access token lifetime")
	migrate := flag.Bool("migrate", false, "Apply database migrations before starting")

	flag.Parse()

	db, err := openDB(*dsn)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			errorLog.Fatal(err)
		}
	}(db)

	if *migrate {
		if err := migrations.Up(db); err != nil {
			errorLog.Fatal(err)
		}
		infoLog.Print("Database schema is up to date")
	}

	tokenManager, err := tokens.NewManager(*secret, *tokenTTL)
	if err != nil {
		errorLog.Fatal(fmt.Errorf("token manager: %w", err))
	}

	templateCache, err := newTemplateCache()
	if err != nil {
		errorLog.Fatal(err)
	}

	sessionManager := scs.New()
	sessionManager.Store = mysqlstore.New(db)
	sessionManager.Lifetime = SessionLifetime
	sessionManager.Cookie.Secure = true

	app := &application{
		debug:          *debug,
		errorLog:       errorLog,
		infoLog:        infoLog,
		users:          &models.UserModel{DB: db},
		ingredients:    &models.IngredientModel{DB: db},
		pantry:         &models.PantryModel{DB: db},
		recipes:        &models.RecipeModel{DB: db},
		templateCache:  templateCache,
		formDecoder:    form.NewDecoder(),
		sessionManager: sessionManager,
		tokenStore:     &sessionStorage{sessionManager: sessionManager},
		guard:          guard.New(guard.Config{}),
		tokens:         tokenManager,
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      app.routes(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
		ErrorLog:     errorLog,
	}

	infoLog.Printf("Starting server on %s", *addr)
	errorLog.Fatal(srv.ListenAndServe())
}

// openDB wraps sql.Open and returns a sql.DB connection pool for a given data source name
func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("database pool initialization: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	return db, nil
}
