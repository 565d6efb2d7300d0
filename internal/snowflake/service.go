package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"snowdemo/pkg/errors"

	"github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"
)

// Executor is the SQL surface every provisioning step works against.
// Service talks to Snowflake; DryRun prints statements instead.
type Executor interface {
	Exec(ctx context.Context, stmt string, args ...interface{}) (int64, error)
	QueryInt(ctx context.Context, query string, args ...interface{}) (int64, error)
	QueryFloat(ctx context.Context, query string, args ...interface{}) (float64, error)
	QueryMaps(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
}

// Service provides Snowflake database operations over a single session.
type Service struct {
	db        *sql.DB
	config    Config
	connected bool
	logger    *zap.Logger
	retry     *errors.RetryConfig
	open      func(driverName, dsn string) (*sql.DB, error)
}

// Config holds Snowflake connection configuration
type Config struct {
	Account           string
	User              string
	Password          string
	Authenticator     string
	PrivateKeyFile    string
	PrivateKeyFilePwd string
	Database          string
	Schema            string
	Warehouse         string
	Role              string
	QueryTag          string
	LoginTimeout      time.Duration
	StatementTimeout  time.Duration
}

// NewService creates a new Snowflake service
func NewService(config Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		config: config,
		logger: logger,
		retry:  errors.DefaultRetryConfig(),
		open:   sql.Open,
	}
}

// NewServiceWithDB wraps an already open handle, e.g. a sqlmock database.
func NewServiceWithDB(db *sql.DB, config Config, logger *zap.Logger) *Service {
	s := NewService(config, logger)
	s.db = db
	s.connected = db != nil
	return s
}

// Connect opens the session. Recoverable failures are retried; the
// returned error is fatal for the run.
func (s *Service) Connect(ctx context.Context) error {
	if s.connected {
		return nil
	}

	dsn, err := s.dsn()
	if err != nil {
		return err
	}

	retry := *s.retry
	retry.OnRetry = func(attempt int, delay time.Duration, err error) {
		s.logger.Warn("connection attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	}

	err = errors.Retry(ctx, &retry, func(ctx context.Context) error {
		db, err := s.open("snowflake", dsn)
		if err != nil {
			return errors.ConnectionError("Failed to open Snowflake connection", err).
				WithContext("account", s.config.Account)
		}

		// USE DATABASE / USE SCHEMA are session state, so keep exactly one session.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := db.PingContext(ctx); err != nil {
			db.Close()

			if strings.Contains(strings.ToLower(err.Error()), "incorrect username or password") ||
				strings.Contains(strings.ToLower(err.Error()), "authentication") {
				return errors.New(errors.ErrCodeAuthenticationFailed, "Authentication failed").
					WithContext("user", s.config.User).
					WithSuggestions(
						"Verify the user and password in connections.toml",
						"For key-pair auth check private_key_file and the registered public key",
					).AsFatal()
			}

			return errors.ConnectionError("Failed to connect to Snowflake", err).
				WithContext("account", s.config.Account).
				AsRecoverable()
		}

		s.db = db
		s.connected = true
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.GetErrorCode(err), "Could not open Snowflake session").AsFatal()
	}

	s.logger.Info("connected to Snowflake",
		zap.String("account", s.config.Account),
		zap.String("user", s.config.User),
		zap.String("role", s.config.Role),
		zap.String("warehouse", s.config.Warehouse))
	return nil
}

func (s *Service) dsn() (string, error) {
	cfg := &gosnowflake.Config{
		Account:      s.config.Account,
		User:         s.config.User,
		Password:     s.config.Password,
		Database:     s.config.Database,
		Schema:       s.config.Schema,
		Warehouse:    s.config.Warehouse,
		Role:         s.config.Role,
		LoginTimeout: s.config.LoginTimeout,
		Application:  "snowdemo",
	}

	if s.config.QueryTag != "" {
		tag := s.config.QueryTag
		cfg.Params = map[string]*string{"QUERY_TAG": &tag}
	}

	switch {
	case s.config.PrivateKeyFile != "":
		key, err := LoadPrivateKey(s.config.PrivateKeyFile, s.config.PrivateKeyFilePwd)
		if err != nil {
			return "", err
		}
		cfg.Authenticator = gosnowflake.AuthTypeJwt
		cfg.PrivateKey = key
		cfg.Password = ""
	case strings.EqualFold(s.config.Authenticator, "externalbrowser"):
		cfg.Authenticator = gosnowflake.AuthTypeExternalBrowser
	}

	dsn, err := gosnowflake.DSN(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to build Snowflake DSN").AsFatal()
	}
	return dsn, nil
}

// Close releases the session
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	s.connected = false
	return nil
}

// Exec runs a single statement and returns the affected row count.
func (s *Service) Exec(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	if err := s.ensureConnected(); err != nil {
		return 0, err
	}

	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, errors.SQLError("Failed to execute statement", stmt, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}

	s.logger.Debug("executed statement",
		zap.String("sql", firstLine(stmt)),
		zap.Int64("rows", affected),
		zap.Duration("elapsed", time.Since(start)))
	return affected, nil
}

// ExecScript splits script on top-level semicolons and executes each
// statement, stopping at the first failure.
func (s *Service) ExecScript(ctx context.Context, script string) error {
	return ExecScript(ctx, s, script)
}

// ExecScript runs every statement of script on exec.
func ExecScript(ctx context.Context, exec Executor, script string) error {
	statements := SplitStatements(script)
	for i, stmt := range statements {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			var appErr *errors.AppError
			if e, ok := err.(*errors.AppError); ok {
				appErr = e
			} else {
				appErr = errors.SQLError("Failed to execute statement", stmt, err)
			}
			return appErr.WithContext("statement_index", i+1).
				WithContext("total_statements", len(statements))
		}
	}
	return nil
}

// QueryInt runs a query returning one integer cell, e.g. SELECT COUNT(*).
func (s *Service) QueryInt(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n sql.NullInt64
	if err := s.queryRow(ctx, query, args, &n); err != nil {
		return 0, err
	}
	return n.Int64, nil
}

// QueryFloat runs a query returning one numeric cell.
func (s *Service) QueryFloat(ctx context.Context, query string, args ...interface{}) (float64, error) {
	var f sql.NullFloat64
	if err := s.queryRow(ctx, query, args, &f); err != nil {
		return 0, err
	}
	return f.Float64, nil
}

func (s *Service) queryRow(ctx context.Context, query string, args []interface{}, dest interface{}) error {
	if err := s.ensureConnected(); err != nil {
		return err
	}

	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(dest); err != nil {
		if err == sql.ErrNoRows {
			return errors.New(errors.ErrCodeNoResults, "Query returned no rows").
				WithContext("query", firstLine(query))
		}
		return errors.SQLError("Failed to run query", query, err)
	}
	return nil
}

// QueryMaps returns every row as a column-name keyed map. Column names are
// lower-cased so SHOW output and SELECT output read the same way.
func (s *Service) QueryMaps(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	if err := s.ensureConnected(); err != nil {
		return nil, err
	}

	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.SQLError("Failed to run query", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeResultParsing, "Failed to read result columns")
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		valuePtrs := make([]interface{}, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeResultParsing, "Failed to scan row")
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[strings.ToLower(col)] = string(b)
			} else {
				row[strings.ToLower(col)] = values[i]
			}
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// DB returns the underlying database handle
func (s *Service) DB() *sql.DB {
	return s.db
}

func (s *Service) ensureConnected() error {
	if !s.connected {
		return errors.New(errors.ErrCodeNotConnected, "not connected to database").
			WithSuggestions("Call Connect() before executing SQL")
	}
	return nil
}

func (s *Service) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.StatementTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.StatementTimeout)
}

// SplitStatements splits on semicolons that are outside quoted strings.
// Empty statements are dropped.
func SplitStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := rune(0)
	prev := rune(0)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, char := range sql {
		if !inString {
			if char == '\'' || char == '"' {
				inString = true
				stringChar = char
			} else if char == ';' && prev != '\\' {
				flush()
				prev = char
				continue
			}
		} else if char == stringChar && prev != '\\' {
			inString = false
		}
		current.WriteRune(char)
		prev = char
	}
	flush()

	return statements
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		stmt = stmt[:i] + " ..."
	}
	if len(stmt) > 160 {
		stmt = stmt[:160] + "..."
	}
	return stmt
}

// ValidateConfig validates the Snowflake configuration
func ValidateConfig(config Config) error {
	if config.Account == "" {
		return fmt.Errorf("account is required")
	}
	if config.User == "" {
		return fmt.Errorf("user is required")
	}
	if config.Password == "" && config.PrivateKeyFile == "" && !strings.EqualFold(config.Authenticator, "externalbrowser") {
		return fmt.Errorf("password or private key is required")
	}
	return nil
}
