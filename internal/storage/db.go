package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"finboard/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

const upsertCompanySQL = `
INSERT INTO companies (corp_code, corp_name, corp_eng_name, stock_code, modify_date, updatedAt)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(corp_code) DO UPDATE SET
  corp_name=excluded.corp_name,
  corp_eng_name=excluded.corp_eng_name,
  stock_code=excluded.stock_code,
  modify_date=excluded.modify_date,
  updatedAt=CURRENT_TIMESTAMP
`

func (d *DB) UpsertCompanies(companies []internal.Company) error {
	return d.writeCompanies(companies, false)
}

// ReplaceCompanies swaps the whole directory for companies in one transaction.
func (d *DB) ReplaceCompanies(companies []internal.Company) error {
	return d.writeCompanies(companies, true)
}

func (d *DB) writeCompanies(companies []internal.Company, replace bool) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.Exec(`DELETE FROM companies`); err != nil {
			return err
		}
	}

	stmt, err := tx.Prepare(upsertCompanySQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range companies {
		if strings.TrimSpace(c.CorpCode) == "" {
			continue
		}
		if _, err := stmt.Exec(c.CorpCode, c.CorpName, c.CorpEngName, strings.TrimSpace(c.StockCode), c.ModifyDate); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SearchCompanies matches query against Korean and English names, or exactly
// against corp/stock codes. Exact name matches come first, then shorter names.
func (d *DB) SearchCompanies(query string, limit int) ([]internal.Company, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []internal.Company{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	like := "%" + escapeLike(query) + "%"
	rows, err := d.conn.Query(`
SELECT corp_code, corp_name, corp_eng_name, stock_code, modify_date
FROM companies
WHERE corp_name LIKE ? ESCAPE '\' OR corp_eng_name LIKE ? ESCAPE '\' OR corp_code = ? OR stock_code = ?
ORDER BY
  CASE WHEN corp_name = ? OR corp_code = ? OR stock_code = ? THEN 0 ELSE 1 END,
  LENGTH(corp_name),
  corp_name
LIMIT ?`, like, like, query, query, query, query, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.Company{}
	for rows.Next() {
		var c internal.Company
		if err := rows.Scan(&c.CorpCode, &c.CorpName, &c.CorpEngName, &c.StockCode, &c.ModifyDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) GetCompany(corpCode string) (*internal.Company, error) {
	var c internal.Company
	err := d.conn.QueryRow(`
SELECT corp_code, corp_name, corp_eng_name, stock_code, modify_date
FROM companies WHERE corp_code = ?`, strings.TrimSpace(corpCode)).
		Scan(&c.CorpCode, &c.CorpName, &c.CorpEngName, &c.StockCode, &c.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) Stats() (internal.DirectoryStats, error) {
	var stats internal.DirectoryStats
	err := d.conn.QueryRow(`
SELECT COUNT(*), COALESCE(SUM(CASE WHEN stock_code != '' THEN 1 ELSE 0 END), 0)
FROM companies`).Scan(&stats.Total, &stats.Listed)
	if err != nil {
		return internal.DirectoryStats{}, err
	}
	stats.Unlisted = stats.Total - stats.Listed
	return stats, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
