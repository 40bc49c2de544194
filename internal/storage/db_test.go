package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "corpcode.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var fixtures = []internal.Company{
	{CorpCode: "00126380", CorpName: "삼성전자", CorpEngName: "SAMSUNG ELECTRONICS CO,.LTD", StockCode: "005930", ModifyDate: "20240101"},
	{CorpCode: "00126371", CorpName: "삼성전기", CorpEngName: "SAMSUNG ELECTRO-MECHANICS", StockCode: "009150", ModifyDate: "20240101"},
	{CorpCode: "00164779", CorpName: "SK하이닉스", CorpEngName: "SK hynix Inc.", StockCode: "000660", ModifyDate: "20240101"},
	{CorpCode: "01234567", CorpName: "삼성전자서비스", CorpEngName: "", StockCode: " ", ModifyDate: "20230101"},
	{CorpCode: "09999999", CorpName: "100%_상사", StockCode: ""},
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpcode.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSearchCompaniesRanking(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceCompanies(fixtures))

	got, err := db.SearchCompanies("삼성전자", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "00126380", got[0].CorpCode)
	assert.Equal(t, "01234567", got[1].CorpCode)

	got, err = db.SearchCompanies("hynix", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SK하이닉스", got[0].CorpName)

	got, err = db.SearchCompanies("005930", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "삼성전자", got[0].CorpName)

	got, err = db.SearchCompanies("삼성", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = db.SearchCompanies("  ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchCompaniesEscapesWildcards(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceCompanies(fixtures))

	got, err := db.SearchCompanies("%", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "09999999", got[0].CorpCode)
}

func TestReplaceAndUpsertCompanies(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceCompanies(fixtures))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, internal.DirectoryStats{Total: 5, Listed: 3, Unlisted: 2}, stats)

	require.NoError(t, db.UpsertCompanies([]internal.Company{{CorpCode: "00126380", CorpName: "삼성전자(주)", StockCode: "005930"}}))
	c, err := db.GetCompany("00126380")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "삼성전자(주)", c.CorpName)

	require.NoError(t, db.ReplaceCompanies(fixtures[:1]))
	stats, err = db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)

	missing, err := db.GetCompany("00164779")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetMetadata("directory.last_sync")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, db.SetMetadata("directory.last_sync", "a"))
	require.NoError(t, db.SetMetadata("directory.last_sync", "b"))
	v, err = db.GetMetadata("directory.last_sync")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "b", *v)
}
