package catalog

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"finboard/internal"
)

var ErrNoCorpCodeFile = errors.New("corp code archive has no xml file")

type corpCodeDocument struct {
	List []corpCodeEntry `xml:"list"`
}

type corpCodeEntry struct {
	CorpCode    string `xml:"corp_code"`
	CorpName    string `xml:"corp_name"`
	CorpEngName string `xml:"corp_eng_name"`
	StockCode   string `xml:"stock_code"`
	ModifyDate  string `xml:"modify_date"`
}

// ParseCorpCodeArchive reads the company list out of the zipped CORPCODE.xml.
// Entries without a corp code are dropped.
func ParseCorpCodeArchive(blob []byte) ([]internal.Company, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("open corp code archive: %w", err)
	}

	var entry *zip.File
	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".xml") {
			continue
		}
		if strings.EqualFold(path.Base(f.Name), "CORPCODE.xml") {
			entry = f
			break
		}
		if entry == nil {
			entry = f
		}
	}
	if entry == nil {
		return nil, ErrNoCorpCodeFile
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return parseCorpCodeXML(rc)
}

func parseCorpCodeXML(r io.Reader) ([]internal.Company, error) {
	var doc corpCodeDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode corp code xml: %w", err)
	}

	out := make([]internal.Company, 0, len(doc.List))
	for _, e := range doc.List {
		code := strings.TrimSpace(e.CorpCode)
		if code == "" {
			continue
		}
		out = append(out, internal.Company{
			CorpCode:    code,
			CorpName:    strings.TrimSpace(e.CorpName),
			CorpEngName: strings.TrimSpace(e.CorpEngName),
			StockCode:   strings.TrimSpace(e.StockCode),
			ModifyDate:  strings.TrimSpace(e.ModifyDate),
		})
	}
	return out, nil
}
