// Copyright 2026 podium Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	_ "github.com/lib/pq"
	"github.com/podium-ml/podium/common/log"
	"github.com/podium-ml/podium/dataset"
	"github.com/samber/lo"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"moul.io/zapgorm2"
	_ "modernc.org/sqlite"
)

const (
	MySQLPrefix      = "mysql://"
	PostgresPrefix   = "postgres://"
	PostgreSQLPrefix = "postgresql://"
	SQLitePrefix     = "sqlite://"
)

// IsDatabase reports whether a data source names a database rather than a CSV file.
func IsDatabase(source string) bool {
	return strings.HasPrefix(source, MySQLPrefix) ||
		strings.HasPrefix(source, PostgresPrefix) ||
		strings.HasPrefix(source, PostgreSQLPrefix) ||
		strings.HasPrefix(source, SQLitePrefix)
}

func AppendURLParams(rawURL string, params []lo.Tuple2[string, string]) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Trace(err)
	}
	q := parsed.Query()
	for _, tuple := range params {
		q.Add(tuple.A, tuple.B)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func AppendMySQLParams(dsn string, params map[string]string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Trace(err)
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]string)
	}
	for key, value := range params {
		if _, exist := cfg.Params[key]; !exist {
			cfg.Params[key] = value
		}
	}
	return cfg.FormatDSN(), nil
}

func NewGORMConfig() *gorm.Config {
	return &gorm.Config{
		Logger: &zapgorm2.Logger{
			ZapLogger:     log.Logger(),
			LogLevel:      logger.Warn,
			SlowThreshold: 10 * time.Second,
		},
		SkipDefaultTransaction: true,
	}
}

// Open connects to a database. The returned *sql.DB must be closed by the caller.
func Open(source string) (*gorm.DB, *sql.DB, error) {
	var (
		client    *sql.DB
		dialector gorm.Dialector
		err       error
	)
	if strings.HasPrefix(source, MySQLPrefix) {
		name := source[len(MySQLPrefix):]
		if name, err = AppendMySQLParams(name, map[string]string{"parseTime": "true"}); err != nil {
			return nil, nil, errors.Trace(err)
		}
		if client, err = otelsql.Open("mysql", name,
			otelsql.WithAttributes(semconv.DBSystemMySQL),
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}),
		); err != nil {
			return nil, nil, errors.Trace(err)
		}
		dialector = gormmysql.New(gormmysql.Config{Conn: client})
	} else if strings.HasPrefix(source, PostgresPrefix) || strings.HasPrefix(source, PostgreSQLPrefix) {
		if client, err = otelsql.Open("postgres", source,
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}),
		); err != nil {
			return nil, nil, errors.Trace(err)
		}
		dialector = postgres.New(postgres.Config{Conn: client})
	} else if strings.HasPrefix(source, SQLitePrefix) {
		if source, err = AppendURLParams(source, []lo.Tuple2[string, string]{
			{A: "_pragma", B: "busy_timeout(10000)"},
		}); err != nil {
			return nil, nil, errors.Trace(err)
		}
		name := source[len(SQLitePrefix):]
		if client, err = otelsql.Open("sqlite", name,
			otelsql.WithAttributes(semconv.DBSystemSqlite),
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}),
		); err != nil {
			return nil, nil, errors.Trace(err)
		}
		dialector = sqlite.Dialector{Conn: client}
	} else {
		return nil, nil, errors.NotSupportedf("database %s", log.RedactDBURL(source))
	}
	db, err := gorm.Open(dialector, NewGORMConfig())
	if err != nil {
		_ = client.Close()
		return nil, nil, errors.Trace(err)
	}
	return db, client, nil
}

// LoadTable reads a table from a database, or a CSV file when source is not a database URL.
// Database cells are read as text and parsed with the same schema rules as CSV.
func LoadTable(ctx context.Context, source, table string, opts dataset.Options) (*dataset.Table, error) {
	if !IsDatabase(source) {
		return dataset.LoadCSV(source, opts)
	}
	start := time.Now()
	db, client, err := Open(source)
	if err != nil {
		return nil, errors.WithType(errors.Annotatef(err, "open %s", log.RedactDBURL(source)), dataset.ErrIO)
	}
	defer client.Close()
	if err = client.PingContext(ctx); err != nil {
		return nil, errors.WithType(errors.Annotatef(err, "connect %s", log.RedactDBURL(source)), dataset.ErrIO)
	}
	rows, err := db.WithContext(ctx).Table(table).Select("*").Rows()
	if err != nil {
		return nil, errors.WithType(errors.Annotatef(err, "query table %s", table), dataset.ErrIO)
	}
	defer rows.Close()
	header, err := rows.Columns()
	if err != nil {
		return nil, errors.WithType(errors.Trace(err), dataset.ErrIO)
	}
	builder, err := dataset.NewBuilder(header, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	cells := make([]sql.NullString, len(header))
	dest := lo.Map(cells, func(_ sql.NullString, i int) any {
		return &cells[i]
	})
	record := make([]string, len(header))
	for line := 1; rows.Next(); line++ {
		if err = rows.Scan(dest...); err != nil {
			return nil, errors.WithType(errors.Annotatef(err, "scan row %d", line), dataset.ErrIO)
		}
		for i, cell := range cells {
			// NULL becomes the empty string, which is a null value by default
			record[i] = lo.Ternary(cell.Valid, cell.String, "")
		}
		if err = builder.Append(record, line); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, errors.WithType(errors.Trace(err), dataset.ErrIO)
	}
	t := builder.Build()
	log.Logger().Debug("load table from database",
		zap.String("source", log.RedactDBURL(source)),
		zap.String("table", table),
		zap.Int("n_rows", t.Count()),
		zap.Duration("load_time", time.Since(start)))
	return t, nil
}
