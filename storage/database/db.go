package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	appfs "github.com/dannygardner26/GVCS-Main-Page-sub000/fs"
)

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite3"
)

func dsn(dbName string, admin bool, conf *core.Config) string {
	if conf.Database.Engine == EngineSQLite {
		return dbName + "?_foreign_keys=on"
	}

	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	switch conf.Database.Engine {
	case EnginePostgres, EngineSQLite:
	default:
		return nil, errors.Wrapf(core.ErrInvalidConfiguration, "unknown database engine %q", conf.Database.Engine)
	}
	db, err := sqlx.Open(conf.Database.Engine, dsn(dbName, admin, conf))
	if err != nil {
		return nil, err
	}
	if conf.Database.Engine == EngineSQLite {
		// every sqlite connection is its own in-memory database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Open opens the application database and waits for it to be ready.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf.Database.Name, false, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := ping(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready, backing off 100ms more after each failed attempt.
func ping(db *sql.DB) error {
	const maxAttempts = 30
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

// ensure runs create unless lookup, which selects true for name, finds a row.
func ensure(db *sqlx.DB, lookup, name, create string) error {
	var found bool
	err := db.Get(&found, db.Rebind(lookup), name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return errors.Wrapf(err, "looking up %s", name)
	case found:
		return nil
	}
	_, err = db.Exec(create)
	return errors.Wrapf(err, "creating %s", name)
}

// CreateIfNotExist creates the postgres app user & database. sqlite creates its file on open.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.Engine != EnginePostgres {
		return nil
	}

	admin, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = admin.Close() }()
	if err = ping(admin.DB); err != nil {
		return err
	}
	if dbUser := conf.Database.User; dbUser != "" {
		create := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", dbUser, conf.Database.Password)
		if err = ensure(admin, "SELECT true FROM pg_roles WHERE rolname = ?", dbUser, create); err != nil {
			return err
		}
	}

	// the app user owns the database
	app, err := open("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = app.Close() }()
	dbName := conf.Database.Name
	return ensure(app, "SELECT true FROM pg_database WHERE datname = ?", dbName, "CREATE DATABASE "+dbName)
}

// MigrationsDir sets goose up for the engine of db and returns its migrations directory.
func MigrationsDir(db *sqlx.DB) (string, error) {
	dir := appfs.PostgresMigrations
	if db.DriverName() == EngineSQLite {
		dir = appfs.SQLiteMigrations
	}
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return "", errors.Wrap(err, "setting goose dialect")
	}
	return dir, nil
}

func Migrate(db *sqlx.DB) error {
	dir, err := MigrationsDir(db)
	if err != nil {
		return err
	}
	if err := goose.Up(db.DB, dir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
