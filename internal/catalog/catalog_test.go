package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/storage"
)

const corpCodeXML = `<?xml version="1.0" encoding="UTF-8"?>
<result>
  <list>
    <corp_code>00126380</corp_code>
    <corp_name>삼성전자</corp_name>
    <corp_eng_name>SAMSUNG ELECTRONICS CO,.LTD</corp_eng_name>
    <stock_code>005930</stock_code>
    <modify_date>20240101</modify_date>
  </list>
  <list>
    <corp_code>00126371</corp_code>
    <corp_name>삼성전기</corp_name>
    <corp_eng_name>SAMSUNG ELECTRO-MECHANICS</corp_eng_name>
    <stock_code>009150</stock_code>
    <modify_date>20240101</modify_date>
  </list>
  <list>
    <corp_code>00434003</corp_code>
    <corp_name>삼성전자판매(주)</corp_name>
    <corp_eng_name></corp_eng_name>
    <stock_code> </stock_code>
    <modify_date>20230505</modify_date>
  </list>
  <list>
    <corp_code></corp_code>
    <corp_name>코드 없음</corp_name>
  </list>
</result>`

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseCorpCodeArchive(t *testing.T) {
	companies, err := ParseCorpCodeArchive(zipArchive(t, map[string]string{"CORPCODE.xml": corpCodeXML}))
	require.NoError(t, err)
	require.Len(t, companies, 3)

	assert.Equal(t, "00126380", companies[0].CorpCode)
	assert.Equal(t, "삼성전자", companies[0].CorpName)
	assert.Equal(t, "005930", companies[0].StockCode)
	assert.True(t, companies[0].Listed())
	assert.False(t, companies[2].Listed())
}

func TestParseCorpCodeArchiveErrors(t *testing.T) {
	_, err := ParseCorpCodeArchive([]byte("not a zip"))
	assert.Error(t, err)

	_, err = ParseCorpCodeArchive(zipArchive(t, map[string]string{"readme.txt": "x"}))
	assert.ErrorIs(t, err, ErrNoCorpCodeFile)

	_, err = ParseCorpCodeArchive(zipArchive(t, map[string]string{"CORPCODE.xml": "<result><list>"}))
	assert.Error(t, err)
}

type fakeCorpCodes struct {
	blob  []byte
	err   error
	calls int
}

func (f *fakeCorpCodes) DownloadCorpCodes(context.Context) ([]byte, error) {
	f.calls++
	return f.blob, f.err
}

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "corpcode.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSyncAndSyncIfStale(t *testing.T) {
	db := openDB(t)
	src := &fakeCorpCodes{blob: zipArchive(t, map[string]string{"CORPCODE.xml": corpCodeXML})}
	svc := NewSyncService(db, src, nil)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	res, err := svc.SyncIfStale(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 3, res.Companies)
	assert.Equal(t, 2, res.Listed)
	assert.NotEmpty(t, res.RunID)

	last, ok, err := svc.LastSync()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, clock.Equal(last))

	clock = clock.Add(30 * time.Minute)
	res, err = svc.SyncIfStale(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 1, src.calls)

	clock = clock.Add(2 * time.Hour)
	_, err = svc.SyncIfStale(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
}

func TestSyncKeepsDirectoryOnFailure(t *testing.T) {
	db := openDB(t)
	src := &fakeCorpCodes{blob: zipArchive(t, map[string]string{"CORPCODE.xml": corpCodeXML})}
	svc := NewSyncService(db, src, nil)
	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	src.err = errors.New("down")
	_, err = svc.Sync(context.Background())
	require.Error(t, err)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
}

func TestDirectorySearchRanking(t *testing.T) {
	db := openDB(t)
	svc := NewSyncService(db, &fakeCorpCodes{blob: zipArchive(t, map[string]string{"CORPCODE.xml": corpCodeXML})}, nil)
	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	dir := NewDirectory(db)

	got, err := dir.Search("삼성전자", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "00126380", got[0].CorpCode)
	assert.Equal(t, "00434003", got[1].CorpCode)

	got, err = dir.Search("삼성", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// equal prefix tier; closer names first
	assert.Equal(t, "삼성전기", got[0].CorpName)

	got, err = dir.Search("009150", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "삼성전기", got[0].CorpName)
}
