package dart

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal"
	"finboard/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func testClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	cfg, _ := config.Load()
	cfg.DartAPIKey = "secret-key"
	cfg.DartAPIBaseURL = "https://example.test/api"

	client := NewClient(cfg, nil)
	client.httpClient = &http.Client{Transport: fn}
	return client
}

var sel = internal.Selector{CorpCode: "00126380", Year: 2023, Period: internal.ReportAnnual}

func TestFetchStatementsSuccess(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/fnlttSinglAcnt.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret-key", q.Get("crtfc_key"))
		assert.Equal(t, "00126380", q.Get("corp_code"))
		assert.Equal(t, "2023", q.Get("bsns_year"))
		assert.Equal(t, "11011", q.Get("reprt_code"))
		return respond(http.StatusOK, `{"status":"000","message":"정상","list":[
			{"account_nm":"매출액","fs_div":"CFS","sj_div":"IS","thstrm_amount":"1,000","frmtrm_amount":"900","stock_code":"005930"},
			{"account_nm":"자산총계","fs_div":"OFS","sj_div":"BS","thstrm_amount":"5","frmtrm_amount":"4","currency":"USD"}
		]}`), nil
	})

	items, err := client.FetchStatements(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "매출액", items[0].AccountName)
	assert.Equal(t, internal.DivisionConsolidated, items[0].Division)
	assert.Equal(t, internal.StatementIncome, items[0].Statement)
	assert.Equal(t, "1,000", items[0].CurrentAmount)
	assert.Equal(t, "2023", items[0].Year)
	assert.Equal(t, "11011", items[0].ReportCode)
	assert.Equal(t, "00126380", items[0].CorpCode)
	assert.Equal(t, "KRW", items[0].Currency)
	assert.Equal(t, "USD", items[1].Currency)
}

func TestFetchStatementsNoData(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"status":"013","message":"조회된 데이타가 없습니다."}`), nil
	})

	_, err := client.FetchStatements(context.Background(), sel)
	require.Error(t, err)
	assert.True(t, IsNoData(err))
	assert.Equal(t, StatusNoData, StatusOf(err))

	var se *SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, sel, se.Selector)
	assert.NotEmpty(t, se.Hints)
	assert.Contains(t, err.Error(), "2022")
}

func TestFetchStatementsOtherStatus(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"status":"020","message":"요청 제한을 초과하였습니다."}`), nil
	})

	_, err := client.FetchStatements(context.Background(), sel)
	require.Error(t, err)
	assert.False(t, IsNoData(err))
	assert.Equal(t, "020", StatusOf(err))

	var se *SourceError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, se.Hints)
}

func TestFetchStatementsTransportFailures(t *testing.T) {
	cases := []struct {
		name string
		fn   roundTripFunc
		code int
	}{
		{
			name: "network",
			fn: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "http status",
			fn: func(r *http.Request) (*http.Response, error) {
				return respond(http.StatusBadGateway, "bad gateway"), nil
			},
			code: http.StatusBadGateway,
		},
		{
			name: "bad json",
			fn: func(r *http.Request) (*http.Response, error) {
				return respond(http.StatusOK, "<html>maintenance</html>"), nil
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testClient(t, tc.fn).FetchStatements(context.Background(), sel)
			require.Error(t, err)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.code, te.StatusCode)
			assert.Empty(t, StatusOf(err))
			assert.NotContains(t, err.Error(), "secret-key")
		})
	}
}

func TestFetchStatementsMissingKey(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected without a key")
		return nil, nil
	})
	client.apiKey = ""

	_, err := client.FetchStatements(context.Background(), sel)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDownloadCorpCodes(t *testing.T) {
	t.Run("archive", func(t *testing.T) {
		client := testClient(t, func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/corpCode.xml", r.URL.Path)
			return respond(http.StatusOK, "PK\x03\x04rest"), nil
		})
		blob, err := client.DownloadCorpCodes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "PK\x03\x04rest", string(blob))
	})

	t.Run("status document", func(t *testing.T) {
		client := testClient(t, func(r *http.Request) (*http.Response, error) {
			return respond(http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?><result><status>010</status><message>등록되지 않은 키입니다.</message></result>`), nil
		})
		_, err := client.DownloadCorpCodes(context.Background())
		require.Error(t, err)
		assert.Equal(t, "010", StatusOf(err))
	})
}

func TestTransportErrorBodyIsTruncatedOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("가", 100)
	_, err := testClient(t, func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusInternalServerError, body), nil
	}).FetchStatements(context.Background(), sel)
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	// "가" is three bytes; a cut inside it backs off to the previous rune.
	assert.Equal(t, "가...", truncate("가나다", 4))
	assert.Equal(t, "...", truncate("가나다", 2))
}
