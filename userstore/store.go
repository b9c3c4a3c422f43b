package userstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

type (
	Driver string

	// Store keeps user records in a single relational table.
	Store struct {
		db     *sql.DB
		driver Driver
	}

	User struct {
		ID             int64
		Email          string
		HashedPassword string
		SessionID      sql.NullString
		ResetToken     sql.NullString
	}
)

const (
	SQLite   = Driver("sqlite3")
	Postgres = Driver("pgx")
)

var (
	//go:embed migrations
	migrations embed.FS
)

func ParseDriver(name string) (Driver, error) {
	switch Driver(name) {
	case SQLite, Postgres:
		return Driver(name), nil
	}
	return "", UnknownDriver{Name: name}
}

// Open connects to the user database and applies any pending migration.
//
// For SQLite the dsn is a directory, the database file lives inside it and
// is created when missing. For Postgres the dsn is passed as-is to pgx.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	db, err := openDatabase(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, driver: driver}
	err = s.migrate(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if driver == SQLite {
		// sqlite allows a single writer, let database/sql queue them
		db.SetMaxOpenConns(1)
	}
	return s, nil
}

func openDatabase(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var connstr string
	switch driver {
	case SQLite:
		err := os.MkdirAll(dsn, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store users, cause %w", dsn, err)
		}
		connstr = fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&mode=rwc", filepath.Join(dsn, "users.db"))
	case Postgres:
		connstr = dsn
	default:
		return nil, UnknownDriver{Name: string(driver)}
	}
	conn, err := sql.Open(string(driver), connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v database, cause %w", driver, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping %v database, cause %w", driver, err)
	}
	return conn, nil
}

// migrate applies the embedded schema migrations for the store dialect.
func (s *Store) migrate(ctx context.Context) error {
	dialect := database.DialectSQLite3
	dir := "migrations/sqlite3"
	if s.driver == Postgres {
		dialect = database.DialectPostgres
		dir = "migrations/postgres"
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, s.db, fsys)
	if err != nil {
		return fmt.Errorf("unable to load migrations, cause %w", err)
	}
	_, err = provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("unable to migrate users table, cause %w", err)
	}
	return nil
}

// Add inserts a new user, email must not be registered yet.
func (s *Store) Add(ctx context.Context, email string, hashedPassword string) (User, error) {
	if len(hashedPassword) == 0 {
		return User{}, InvalidField{Name: "hashed_password"}
	}
	u := User{Email: email, HashedPassword: hashedPassword}
	err := s.db.QueryRowContext(ctx, s.rebind(`insert into users(email, email_hash64, hashed_password) values (?, ?, ?) returning user_id`),
		email, emailHash(email), hashedPassword).Scan(&u.ID)
	if isUniqueViolation(err) {
		return User{}, DuplicateEmail{Email: email}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to add user %v, cause %w", email, err)
	}
	return u, nil
}

// FindBy returns the single user matching c. The boolean is false when
// no user matches.
func (s *Store) FindBy(ctx context.Context, c Criteria) (User, bool, error) {
	if !c.valid() {
		return User{}, false, InvalidCriteria{}
	}
	where, args := c.where()
	var u User
	err := s.db.QueryRowContext(ctx, s.rebind(`select user_id, email, hashed_password, session_id, reset_token from users where `+where), args...).
		Scan(&u.ID, &u.Email, &u.HashedPassword, &u.SessionID, &u.ResetToken)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	} else if err != nil {
		return User{}, false, fmt.Errorf("unable to lookup user by %v, cause %w", c, err)
	}
	return u, true, nil
}

// Find is like FindBy but reports a missing user as RecordNotFound.
func (s *Store) Find(ctx context.Context, c Criteria) (User, error) {
	u, found, err := s.FindBy(ctx, c)
	if err != nil {
		return User{}, err
	} else if !found {
		return User{}, RecordNotFound{Criteria: c}
	}
	return u, nil
}

// Update writes ch to the user matching c in a single statement.
func (s *Store) Update(ctx context.Context, c Criteria, ch Changes) error {
	if !c.valid() {
		return InvalidCriteria{}
	}
	set, args, err := ch.set()
	if err != nil {
		return err
	}
	where, whereArgs := c.where()
	res, err := s.db.ExecContext(ctx, s.rebind(`update users set `+set+` where `+where), append(args, whereArgs...)...)
	if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", c, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", c, err)
	}
	if n == 0 {
		return RecordNotFound{Criteria: c}
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unable to count users, cause %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind turns ? placeholders into $n when talking to postgres.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func emailHash(email string) int64 {
	return int64(xxhash.Sum64String(email))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
