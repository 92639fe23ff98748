package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// corpCodeFile is the CORPCODE.xml payload inside the zip that the
// corpCode endpoint returns.
type corpCodeFile struct {
	List []corpCodeEntry `xml:"list"`
}

type corpCodeEntry struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// CorpCode resolves a 6-digit stock code to the DART corp code,
// loading the full corp master on first use. Safe for concurrent use;
// the fetcher calls this from multiple goroutines.
func (c *Client) CorpCode(ctx context.Context, stockCode string) (string, error) {
	c.corpMu.Lock()
	defer c.corpMu.Unlock()

	if c.corpCodes == nil {
		codes, err := c.fetchCorpCodes(ctx)
		if err != nil {
			return "", fmt.Errorf("load corp code master: %w", err)
		}
		c.corpCodes = codes
	}

	code, ok := c.corpCodes[stockCode]
	if !ok {
		return "", fmt.Errorf("no DART corp code for stock %s", stockCode)
	}
	return code, nil
}

// fetchCorpCodes downloads the corp code master. The endpoint serves a
// zip archive holding a single CORPCODE.xml.
func (c *Client) fetchCorpCodes(ctx context.Context) (map[string]string, error) {
	body, err := c.get(ctx, "/api/corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open corp code archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("corp code archive is empty")
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", zr.File[0].Name, err)
	}
	defer rc.Close()

	xmlData, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read corp code xml: %w", err)
	}

	var file corpCodeFile
	if err := xml.Unmarshal(xmlData, &file); err != nil {
		return nil, fmt.Errorf("decode corp code xml: %w", err)
	}

	codes := make(map[string]string)
	for _, e := range file.List {
		stock := strings.TrimSpace(e.StockCode)
		if stock == "" {
			continue // unlisted company
		}
		codes[stock] = e.CorpCode
	}

	c.logger.WithField("count", len(codes)).Info("Loaded DART corp code master")
	return codes, nil
}
