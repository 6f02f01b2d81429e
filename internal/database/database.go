// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// pgx registers itself as the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/micdr93/yardly/internal/model"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBinstanceStruct is a struct that holds the GORM DB instance and related information.
type DBinstanceStruct struct {
	*gorm.DB
	// Config
	Config *DBConfig
	// cached raw DB and mutex for lazy-init
	sqlDB *sql.DB
	mu    sync.RWMutex
}

// DBConfig holds the configuration parameters for connecting to a database.
type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	Constr     string
	SQLitePath string
	useConstr  bool
}

func (d *DBConfig) getDsn() (string, error) {
	if d.Driver == DriverSQLite {
		if d.SQLitePath == "" {
			return "", fmt.Errorf("SQLITE_PATH is empty")
		}
		if strings.Contains(d.SQLitePath, "?") {
			return d.SQLitePath, nil
		}
		return d.SQLitePath + "?_foreign_keys=on", nil
	}

	if d.useConstr {
		if d.Constr == "" {
			return "", fmt.Errorf("DB_CONNECTION_STR is empty")
		}
		return d.Constr, nil
	}
	if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.DBName == "" {
		return "", fmt.Errorf("Database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.DBName), nil
}

func (d *DBConfig) dialector() (gorm.Dialector, error) {
	dsn, err := d.getDsn()
	if err != nil {
		return nil, err
	}
	switch d.Driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
}

var (
	driver        = os.Getenv("DB_DRIVER")
	database      = os.Getenv("DB_DATABASE")
	password      = os.Getenv("DB_PASSWORD")
	username      = os.Getenv("DB_USERNAME")
	port          = os.Getenv("DB_PORT")
	host          = os.Getenv("DB_HOST")
	useEnvConnStr = os.Getenv("USE_CONNECTION_STR")
	envConStr     = os.Getenv("DB_CONNECTION_STR")
	sqlitePath    = os.Getenv("SQLITE_PATH")
	// dbInstance is instance of GORM orm as an interface to database
	dbInstance *DBinstanceStruct
	dbMu       sync.Mutex
)

// NewDBInstance creates a new DBinstanceStruct with the given configuration.
// It establishes a connection to the database, migrates every model and
// returns the instance or an error if any step fails.
func NewDBInstance(config *DBConfig) (*DBinstanceStruct, error) {
	dialector, err := config.dialector()
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if gin.IsDebugging() {
		logLevel = logger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	newDb := &DBinstanceStruct{
		DB:     gdb,
		Config: config,
	}

	if config.Driver == DriverSQLite {
		// An in-memory database only lives as long as its connection.
		raw, err := newDb.Raw()
		if err != nil {
			return nil, err
		}
		raw.SetMaxOpenConns(1)
	}

	if err := newDb.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	newDb.createAdmin()

	return newDb, nil
}

// ConfigFromEnv builds a DBConfig from the DB_* environment variables.
func ConfigFromEnv() (*DBConfig, error) {
	useConstr := false
	if useEnvConnStr != "" {
		v, err := strconv.ParseBool(useEnvConnStr)
		if err != nil {
			return nil, fmt.Errorf("USE_CONNECTION_STR environments variables are invalid: %w", err)
		}
		useConstr = v
	}

	d := strings.ToLower(strings.TrimSpace(driver))
	if d == "" {
		d = DriverPostgres
	}

	return &DBConfig{
		Driver:     d,
		Host:       host,
		Port:       port,
		User:       username,
		Password:   password,
		DBName:     database,
		useConstr:  useConstr,
		Constr:     envConStr,
		SQLitePath: sqlitePath,
	}, nil
}

// GetMainDB returns the main database instance, initializing it if necessary.
// It reads configuration from environment variables and ensures a single instance is used.
func GetMainDB() (*DBinstanceStruct, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	// Reuse Connection
	if dbInstance != nil {
		return dbInstance, nil
	}

	config, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return nil, err
	}
	dbInstance = db
	return dbInstance, nil
}

// Raw returns the underlying *sql.DB, caching it after the first successful retrieval.
// It is safe for concurrent use.
func (d *DBinstanceStruct) Raw() (*sql.DB, error) {
	if d == nil {
		return nil, fmt.Errorf("DBinstanceStruct is nil")
	}

	// fast path: cached value
	d.mu.RLock()
	if d.sqlDB != nil {
		raw := d.sqlDB
		d.mu.RUnlock()
		return raw, nil
	}
	d.mu.RUnlock()

	// slow path: initialize
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sqlDB != nil {
		return d.sqlDB, nil
	}
	if d.DB == nil {
		return nil, fmt.Errorf("gorm DB is nil")
	}
	raw, err := d.DB.DB()
	if err != nil {
		return nil, err
	}
	d.sqlDB = raw
	return raw, nil
}

func (d *DBinstanceStruct) createAdmin() {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminPassword == "" {
		log.Println("Admin username or password not set, skipping admin creation")
		return
	}

	var count int64
	d.Model(&model.User{}).Where("user_type = ?", model.RoleAdmin).Count(&count)
	if count == 0 {
		if _, err := CreateAdmin(d.DB, adminUsername, adminPassword); err != nil {
			log.Printf("failed to create admin: %v", err)
		}
	}
}

// Migrate database
func (d *DBinstanceStruct) Migrate() error {
	return d.AutoMigrate(model.MigrateAble...)
}

// DropAll drops every table owned by the models, children first.
func (d *DBinstanceStruct) DropAll() error {
	for i := len(model.MigrateAble) - 1; i >= 0; i-- {
		if err := d.Migrator().DropTable(model.MigrateAble[i]); err != nil {
			return err
		}
	}
	return nil
}

// poolAdvice flags connection pool statistics that point at a problem.
// Later rules win when several match.
var poolAdvice = []struct {
	match   func(sql.DBStats) bool
	message string
}{
	{func(s sql.DBStats) bool { return s.OpenConnections > 40 }, "The database is experiencing heavy load."},
	{func(s sql.DBStats) bool { return s.WaitCount > 1000 }, "The database has a high number of wait events, indicating potential bottlenecks."},
	{func(s sql.DBStats) bool { return s.MaxIdleClosed > int64(s.OpenConnections)/2 }, "Many idle connections are being closed, consider revising the connection pool settings."},
	{func(s sql.DBStats) bool { return s.MaxLifetimeClosed > int64(s.OpenConnections)/2 }, "Many connections are being closed due to max lifetime, consider revising the connection usage pattern."},
}

// Health pings the database and reports the connection pool statistics.
// "status" is "up" or "down"; the other keys are only set when it is up.
func (d *DBinstanceStruct) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	down := func(err error) map[string]string {
		log.Printf("db down: %v", err)
		return map[string]string{"status": "down", "error": fmt.Sprintf("db down: %v", err)}
	}

	raw, err := d.Raw()
	if err != nil {
		return down(err)
	}
	if err := raw.PingContext(ctx); err != nil {
		return down(err)
	}

	pool := raw.Stats()
	stats := map[string]string{
		"status":              "up",
		"driver":              d.Dialector.Name(),
		"message":             "It's healthy",
		"open_connections":    strconv.Itoa(pool.OpenConnections),
		"in_use":              strconv.Itoa(pool.InUse),
		"idle":                strconv.Itoa(pool.Idle),
		"wait_count":          strconv.FormatInt(pool.WaitCount, 10),
		"wait_duration":       pool.WaitDuration.String(),
		"max_idle_closed":     strconv.FormatInt(pool.MaxIdleClosed, 10),
		"max_lifetime_closed": strconv.FormatInt(pool.MaxLifetimeClosed, 10),
	}
	for _, advice := range poolAdvice {
		if advice.match(pool) {
			stats["message"] = advice.message
		}
	}
	return stats
}

// Close closes the database connection.
func (d *DBinstanceStruct) Close() error {
	log.Printf("Disconnected from database: %s", d.Config.DBName)
	oriDB, err := d.Raw()
	if err != nil {
		return err
	}
	return oriDB.Close()
}
