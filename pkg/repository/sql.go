package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/interfaces"
	"github.com/secmon-lab/stabdash/pkg/domain/model"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the pure Go "sqlite" driver
)

const (
	// DefaultTable is the table holding stability test results
	DefaultTable = "stability_tests"

	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQL loads stability records from a relational store through database/sql.
// A DSN starting with postgres:// or postgresql:// selects PostgreSQL;
// anything else is a SQLite database file opened read-only.
type SQL struct {
	driver string
	source string
	table  string
	// display is the DSN with credentials removed, for logs and errors
	display string
}

var _ interfaces.StabilityRepository = (*SQL)(nil)

// Option customizes an SQL repository
type Option func(*SQL)

// WithTable overrides the table name. Must be a plain SQL identifier.
func WithTable(name string) Option {
	return func(r *SQL) { r.table = name }
}

// NewSQL creates a repository for dsn
func NewSQL(dsn string, opts ...Option) (*SQL, error) {
	if dsn == "" {
		return nil, goerr.New("database DSN is required")
	}

	r := &SQL{table: DefaultTable}
	for _, opt := range opts {
		opt(r)
	}
	if !identifier.MatchString(r.table) {
		return nil, goerr.New("invalid table name", goerr.V("table", r.table))
	}

	if isPostgres(dsn) {
		r.driver = driverPostgres
		r.source = dsn
		r.display = RedactDSN(dsn)
		return r, nil
	}

	path := strings.TrimPrefix(dsn, "sqlite://")
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve database path", goerr.V("path", path))
	}
	r.driver = driverSQLite
	r.source = sqliteURI(abs)
	r.display = abs
	return r, nil
}

// Driver returns the database/sql driver name in use
func (r *SQL) Driver() string { return r.driver }

// Source returns the data source with credentials removed
func (r *SQL) Source() string { return r.display }

// Table returns the table name queried
func (r *SQL) Table() string { return r.table }

// Query returns the fixed projection issued by LoadStability
func (r *SQL) Query() string {
	return fmt.Sprintf("SELECT time_point, temperature, position, molecular_weight, volume, impurity FROM %s", r.table)
}

// LoadStability opens the store, reads the whole table and closes the
// connection before returning. Any failure is reported as
// model.ErrDataSourceUnavailable; no partial result is returned.
func (r *SQL) LoadStability(ctx context.Context) ([]model.StabilityRecord, error) {
	logger := ctxlog.From(ctx)
	start := time.Now()

	db, err := sql.Open(r.driver, r.source)
	if err != nil {
		return nil, r.unavailable(err, "failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "error", err, "source", r.display)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return nil, r.unavailable(err, "failed to connect to database")
	}

	rows, err := db.QueryContext(ctx, r.Query())
	if err != nil {
		return nil, r.unavailable(err, "failed to query stability table")
	}
	defer rows.Close()

	var records []model.StabilityRecord
	for rows.Next() {
		var (
			timePoint any
			temp      sql.NullFloat64
			position  sql.NullString
			mw        sql.NullFloat64
			volume    sql.NullFloat64
			impurity  sql.NullFloat64
		)
		if err := rows.Scan(&timePoint, &temp, &position, &mw, &volume, &impurity); err != nil {
			return nil, r.unavailable(err, "failed to scan stability row", goerr.V("row", len(records)))
		}
		records = append(records, model.StabilityRecord{
			TimePoint:       formatTimePoint(timePoint),
			Temperature:     nullFloat(temp),
			Position:        position.String,
			MolecularWeight: nullFloat(mw),
			Volume:          nullFloat(volume),
			Impurity:        nullFloat(impurity),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err, "failed to read stability rows")
	}

	logger.Debug("stability table loaded",
		"source", r.display,
		"table", r.table,
		"rows", len(records),
		"duration", time.Since(start),
	)
	if records == nil {
		records = []model.StabilityRecord{}
	}
	return records, nil
}

func (r *SQL) unavailable(cause error, msg string, opts ...goerr.Option) error {
	opts = append(opts,
		goerr.V("driver", r.driver),
		goerr.V("source", r.display),
		goerr.V("table", r.table),
		goerr.V("cause", cause.Error()),
	)
	return goerr.Wrap(model.ErrDataSourceUnavailable, msg, opts...)
}

// formatTimePoint renders a scanned time_point value as its label. Numeric
// columns keep their shortest exact representation.
func formatTimePoint(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case []byte:
		return string(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case time.Time:
		return tv.Format(time.RFC3339)
	default:
		return fmt.Sprint(tv)
	}
}

// nullFloat maps SQL NULL to NaN so that statistics skip it
func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// sqliteURI builds a read-only SQLite URI for an absolute path. The path
// is escaped so that '?' or '#' in a file name cannot start the query.
func sqliteURI(abs string) string {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// RedactDSN hides the password of a URL-style DSN
func RedactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(creds, ":")
	return scheme + "://" + user + ":***@" + host
}
