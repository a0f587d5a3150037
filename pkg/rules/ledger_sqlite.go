package rules

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteLedger keeps the side-table in a SQLite database.
type SQLiteLedger struct {
	conn *sql.DB
	path string
}

// OpenSQLiteLedger opens or creates the database at path.
func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(path))
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLedger, "failed to open rule database")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(err, errors.ErrLedger, "failed to set pragma")
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS rules (
		guid TEXT PRIMARY KEY,
		rule TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, errors.ErrLedger, "failed to initialize rule database")
	}

	return &SQLiteLedger{conn: conn, path: path}, nil
}

func (l *SQLiteLedger) Load() (map[string]string, error) {
	rows, err := l.conn.Query(`SELECT guid, rule FROM rules`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLedger, "failed to query rules")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var guid, rule string
		if err := rows.Scan(&guid, &rule); err != nil {
			return nil, errors.Wrap(err, errors.ErrLedger, "failed to read rule row")
		}
		out[guid] = rule
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrLedger, "failed to read rules")
	}
	return out, nil
}

func (l *SQLiteLedger) Put(guid, rule string) error {
	_, err := l.conn.Exec(
		`INSERT INTO rules (guid, rule, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(guid) DO UPDATE SET rule = excluded.rule, updated_at = CURRENT_TIMESTAMP`,
		guid, rule,
	)
	return errors.Wrap(err, errors.ErrLedger, "failed to store rule")
}

func (l *SQLiteLedger) Delete(guid string) error {
	_, err := l.conn.Exec(`DELETE FROM rules WHERE guid = ?`, guid)
	return errors.Wrap(err, errors.ErrLedger, "failed to delete rule")
}

func (l *SQLiteLedger) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
