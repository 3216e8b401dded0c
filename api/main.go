package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/auth"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/tasks"
)

const version = "1.0.0"

const shutdownTimeout = 30 * time.Second

type config struct {
	Port int    `env:"PORT" envDefault:"8000"`
	Env  string `env:"APP_ENV" envDefault:"development"`
	DB   struct {
		DSN          string        `env:"DB_DSN" envDefault:"mongodb://localhost:27017"`
		Name         string        `env:"DB_NAME" envDefault:"myappdb"`
		MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
		MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"15m"`
	}
	JWT struct {
		Secret     string `env:"JWT_SECRET_KEY"`
		Algorithm  string `env:"JWT_ALGORITHM" envDefault:"HS256"`
		TTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`
	}
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
	SMTP       struct {
		Host     string `env:"SMTP_HOST"`
		Port     int    `env:"SMTP_PORT" envDefault:"25"`
		Username string `env:"SMTP_USERNAME"`
		Password string `env:"SMTP_PASSWORD"`
		Sender   string `env:"SMTP_SENDER"`
	}
	CORS struct {
		TrustedOrigins []string `env:"CORS_TRUSTED_ORIGINS" envSeparator:" " envDefault:"*"`
	}
}

type application struct {
	config config
	store  data.Pinger
	auth   *auth.Service
	tasks  *tasks.Service
	mailer *mailer
	wg     sync.WaitGroup
}

// loadConfig reads the environment first; flags given in args override it.
func loadConfig(args []string) (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Server Port")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment [development|production]")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", cfg.DB.DSN, "Database DSN (mongodb://, postgres://, sqlite://)")
	fs.StringVar(&cfg.DB.Name, "db-name", cfg.DB.Name, "Database name")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", cfg.DB.MaxOpenConns, "PostgreSQL max open connections")
	fs.IntVar(&cfg.DB.MaxIdleConns, "db-max-idle-conns", cfg.DB.MaxIdleConns, "PostgreSQL max idle connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", cfg.DB.MaxIdleTime, "PostgreSQL max connection idle time")

	fs.StringVar(&cfg.JWT.Secret, "jwt-secret", cfg.JWT.Secret, "JWT secret")
	fs.StringVar(&cfg.JWT.Algorithm, "jwt-algorithm", cfg.JWT.Algorithm, "JWT signing algorithm [HS256|HS384|HS512]")
	fs.IntVar(&cfg.JWT.TTLMinutes, "jwt-ttl-minutes", cfg.JWT.TTLMinutes, "Access token lifetime in minutes")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost")

	fs.StringVar(&cfg.SMTP.Host, "smtp-host", cfg.SMTP.Host, "SMTP host (empty disables mail)")
	fs.IntVar(&cfg.SMTP.Port, "smtp-port", cfg.SMTP.Port, "SMTP port")
	fs.StringVar(&cfg.SMTP.Username, "smtp-username", cfg.SMTP.Username, "SMTP username")
	fs.StringVar(&cfg.SMTP.Password, "smtp-password", cfg.SMTP.Password, "SMTP password")
	fs.StringVar(&cfg.SMTP.Sender, "smtp-sender", cfg.SMTP.Sender, "SMTP sender")

	origins := strings.Join(cfg.CORS.TrustedOrigins, " ")
	fs.StringVar(&origins, "cors-trusted-origins", origins, "Trusted CORS origins (space separated)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.CORS.TrustedOrigins = strings.Fields(origins)
	return cfg, nil
}

func newApplication(cfg config, store data.Store, tokens *auth.Tokens, m *mailer) *application {
	ttl := time.Duration(cfg.JWT.TTLMinutes) * time.Minute
	return &application{
		config: cfg,
		store:  store,
		auth:   auth.NewService(store, auth.NewHasher(cfg.BcryptCost), tokens, ttl),
		tasks:  tasks.NewService(store),
		mailer: m,
	}
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("established a connection with database")

	secret := []byte(cfg.JWT.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatal(err)
		}
		log.Println("JWT_SECRET_KEY not set, signing with a random key; tokens will not survive a restart")
	}
	tokens, err := auth.NewTokens(secret, cfg.JWT.Algorithm)
	if err != nil {
		log.Fatal(err)
	}

	var m *mailer
	if cfg.SMTP.Host != "" {
		m = newMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	}

	app := newApplication(cfg, store, tokens, m)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      composeRoutes(app),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting %s server on port %d\n", cfg.Env, cfg.Port)
	err = app.serve(ctx, srv)
	if cerr := store.Close(); cerr != nil {
		log.Println(cerr)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Println("server stopped")
}

// serve runs srv until ctx is done, then stops accepting requests, drains the
// in-flight ones and waits for background jobs such as pending mail.
func (app *application) serve(ctx context.Context, srv *http.Server) error {
	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		log.Println("shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		app.wg.Wait()
		shutdownErr <- err
	}()

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
