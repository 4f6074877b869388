package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"waste-wrangler-service/internal/domain"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Dialect captures the few places where Postgres and SQLite disagree:
// placeholder syntax, time encoding and transaction options.
type Dialect struct {
	Name     string
	numbered bool
	txOpts   *sql.TxOptions
	timeArg  func(time.Time) any
	dateArg  func(time.Time) any
}

var (
	// Postgres stores TIMESTAMP/DATE columns and binds $n placeholders.
	Postgres = Dialect{
		Name:     "postgres",
		numbered: true,
		txOpts:   &sql.TxOptions{Isolation: sql.LevelSerializable},
		timeArg:  func(t time.Time) any { return domain.Wall(t) },
		dateArg:  func(t time.Time) any { return domain.Day(t) },
	}

	// SQLite stores times as sortable TEXT and binds ? placeholders.
	SQLite = Dialect{
		Name:    "sqlite",
		timeArg: func(t time.Time) any { return domain.Wall(t).Format(sqliteTimeLayout) },
		dateArg: func(t time.Time) any { return domain.Day(t).Format(time.DateOnly) },
	}
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("dialect: unsupported driver %q", driver)
	}
}

// rebind rewrites ? placeholders into $1..$n for numbered dialects.
// Queries in this package never contain a literal question mark.
func (d Dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// decodeTime converts a scanned TIMESTAMP/DATE or TEXT value into wall time.
func decodeTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return domain.Wall(v), nil
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	case nil:
		return time.Time{}, fmt.Errorf("decode time: unexpected NULL")
	default:
		return time.Time{}, fmt.Errorf("decode time: unsupported type %T", src)
	}
}

var timeLayouts = []string{
	sqliteTimeLayout,
	"2006-01-02 15:04",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Wall(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: unrecognized layout", s)
}
