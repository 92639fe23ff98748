package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Report codes for the four periodic filings.
const (
	reportQ1     = "11013" // 1분기보고서
	reportHalf   = "11012" // 반기보고서
	reportQ3     = "11014" // 3분기보고서
	reportAnnual = "11011" // 사업보고서
)

// Statement account names, keyed by the account codes the pipeline
// asks for. DART identifies rows by Korean account name, not code.
var accountNames = map[string]string{
	"122700": "당기순이익", // net profit
	"111000": "자산총계",  // total assets
	"111100": "유동자산",  // current assets
	"113000": "부채총계",  // total liabilities
	"115000": "자본총계",  // total equity
}

// AccountRow is one quarter's value for a single statement account.
// Value is in KRW (원).
type AccountRow struct {
	YearMonth int // e.g. 202506
	Value     float64
}

type statementResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	List    []statementRow `json:"list"`
}

type statementRow struct {
	AccountNm    string `json:"account_nm"`
	FsDiv        string `json:"fs_div"` // CFS 연결 / OFS 별도
	ThstrmAmount string `json:"thstrm_amount"`
}

const statusOK = "000"
const statusNoData = "013"

// AccountSeries fetches the recent quarterly series for one statement
// account, walking back from asOf over the last few filing periods.
// Results are ascending by YearMonth.
func (c *Client) AccountSeries(ctx context.Context, stockCode, accountCode string, asOf time.Time) ([]AccountRow, error) {
	name, ok := accountNames[accountCode]
	if !ok {
		return nil, fmt.Errorf("unsupported account code %s", accountCode)
	}

	corpCode, err := c.CorpCode(ctx, stockCode)
	if err != nil {
		return nil, err
	}

	var rows []AccountRow
	for _, p := range recentPeriods(asOf, 5) {
		value, found, err := c.fetchAccount(ctx, corpCode, name, p)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", p.yearMonth(), err)
		}
		if found {
			rows = append(rows, AccountRow{YearMonth: p.yearMonth(), Value: value})
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no %s filings for %s", name, stockCode)
	}

	// Walked newest-first above; callers expect ascending order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (c *Client) fetchAccount(ctx context.Context, corpCode, accountName string, p period) (float64, bool, error) {
	params := url.Values{
		"corp_code":  {corpCode},
		"bsns_year":  {strconv.Itoa(p.year)},
		"reprt_code": {p.report},
		"fs_div":     {"CFS"},
	}

	body, err := c.get(ctx, "/api/fnlttSinglAcntAll.json", params)
	if err != nil {
		return 0, false, err
	}

	var resp statementResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, false, fmt.Errorf("decode statement response: %w", err)
	}
	if resp.Status == statusNoData {
		return 0, false, nil // no filing for this period
	}
	if resp.Status != statusOK {
		return 0, false, fmt.Errorf("DART error %s: %s", resp.Status, resp.Message)
	}

	for _, row := range resp.List {
		if row.AccountNm == accountName {
			return parseAmount(row.ThstrmAmount), true, nil
		}
	}
	return 0, false, nil
}

// period identifies one periodic filing.
type period struct {
	year   int
	report string
}

// yearMonth maps a filing to its quarter-end YYYYMM.
func (p period) yearMonth() int {
	month := map[string]int{
		reportQ1:     3,
		reportHalf:   6,
		reportQ3:     9,
		reportAnnual: 12,
	}[p.report]
	return p.year*100 + month
}

// recentPeriods lists the n most recent filing periods before asOf,
// newest first. Filings lag quarter-end by up to 90 days, so the walk
// starts two quarters back from the as-of quarter.
func recentPeriods(asOf time.Time, n int) []period {
	order := []string{reportQ1, reportHalf, reportQ3, reportAnnual}

	year := asOf.Year()
	idx := (int(asOf.Month())-1)/3 - 2
	for idx < 0 {
		idx += 4
		year--
	}

	periods := make([]period, 0, n)
	for len(periods) < n {
		periods = append(periods, period{year: year, report: order[idx]})
		idx--
		if idx < 0 {
			idx = 3
			year--
		}
	}
	return periods
}

// parseAmount parses DART comma-grouped amounts.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	n, _ := strconv.ParseFloat(s, 64)
	return n
}
