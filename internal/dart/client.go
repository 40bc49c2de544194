package dart

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"finboard/internal"
	"finboard/internal/config"
	"finboard/internal/logging"
)

// Client talks to the Open DART public-data service. It is safe for concurrent use.
// Every call is a single request: no retries and no throttling happen here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
}

type statementResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	List    []internal.RawLineItem `json:"list"`
}

type statusEnvelope struct {
	Status  string `xml:"status"`
	Message string `xml:"message"`
}

func NewClient(cfg config.Config, logger arbor.ILogger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.DartAPIBaseURL, "/"),
		apiKey:     cfg.DartAPIKey,
		httpClient: &http.Client{Timeout: cfg.DartTimeout()},
		logger:     logger,
	}
}

// FetchStatements retrieves the key-account line items for one selector.
func (c *Client) FetchStatements(ctx context.Context, sel internal.Selector) ([]internal.RawLineItem, error) {
	params := url.Values{}
	params.Set("corp_code", sel.CorpCode)
	params.Set("bsns_year", strconv.Itoa(sel.Year))
	params.Set("reprt_code", string(sel.Period))

	body, err := c.get(ctx, "fnlttSinglAcnt.json", params)
	if err != nil {
		return nil, err
	}

	var resp statementResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Op: "decode statements", Err: err}
	}

	c.logger.Debug().
		Str("corp_code", sel.CorpCode).
		Int("year", sel.Year).
		Str("reprt_code", string(sel.Period)).
		Str("status", resp.Status).
		Int("items", len(resp.List)).
		Msg("dart statements response")

	if resp.Status != StatusOK {
		return nil, newSourceError(resp.Status, resp.Message, sel)
	}

	items := resp.List
	for i := range items {
		if strings.TrimSpace(items[i].Year) == "" {
			items[i].Year = strconv.Itoa(sel.Year)
		}
		if strings.TrimSpace(items[i].ReportCode) == "" {
			items[i].ReportCode = string(sel.Period)
		}
		if strings.TrimSpace(items[i].CorpCode) == "" {
			items[i].CorpCode = sel.CorpCode
		}
		if strings.TrimSpace(items[i].Currency) == "" {
			items[i].Currency = "KRW"
		}
	}
	return items, nil
}

// DownloadCorpCodes fetches the zipped company reference list.
func (c *Client) DownloadCorpCodes(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, "corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(body, []byte("PK")) {
		return body, nil
	}

	// errors come back as a small XML document instead of an archive
	var env statusEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Status != "" && env.Status != StatusOK {
		return nil, newSourceError(env.Status, env.Message, internal.Selector{})
	}
	return nil, &TransportError{Op: "download corp codes", Err: errors.New("response is not a zip archive")}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	u, err := url.Parse(c.baseURL + "/" + endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("crtfc_key", c.apiKey)
	u.RawQuery = q.Encode()

	op := "GET " + endpoint
	endpointURL := u.Scheme + "://" + u.Host + u.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error would print the query string, api key included
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, &TransportError{Op: op, URL: endpointURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: endpointURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Op: op, URL: endpointURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("body=%s", truncate(string(body), 200))}
	}
	return body, nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
