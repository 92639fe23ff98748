package krx

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
)

// symbolMasterResponse is the raw KRX listed-issue response.
type symbolMasterResponse struct {
	OutBlock1 []symbolMasterRow `json:"OutBlock_1"`
}

type symbolMasterRow struct {
	ISU_SRT_CD string `json:"ISU_SRT_CD"` // 단축코드
	ISU_ABBRV  string `json:"ISU_ABBRV"`  // 종목명
	MKT_TP_NM  string `json:"MKT_TP_NM"`  // 시장구분 (유가증권/코스닥/코넥스)
	SECU_TP_CD string `json:"SECU_TP_CD"` // 증권구분 (ST/EF/EN/...)
	ADMI_ISSU  string `json:"ADMI_ISSU"`  // 관리종목 여부 (Y/N)
}

// FetchSymbolMaster fetches the full listed-issue master for a trade
// date. Every listed issue is returned; market and security-type
// filtering happens downstream.
func (c *Client) FetchSymbolMaster(ctx context.Context, date time.Time) ([]contracts.SymbolInfo, error) {
	form := url.Values{
		"bld":         {"dbms/MDC/STAT/standard/MDCSTAT01901"},
		"locale":      {"ko_KR"},
		"mktId":       {"ALL"},
		"trdDd":       {date.Format("20060102")},
		"share":       {"1"},
		"csvxls_isNo": {"false"},
	}

	c.logger.WithField("trade_date", date.Format("20060102")).Info("Fetching symbol master from KRX")

	body, err := c.postForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("fetch symbol master: %w", err)
	}

	var apiResp symbolMasterResponse
	if err := c.decode(body, &apiResp); err != nil {
		return nil, err
	}

	infos := make([]contracts.SymbolInfo, 0, len(apiResp.OutBlock1))
	for _, row := range apiResp.OutBlock1 {
		if row.ISU_SRT_CD == "" {
			continue
		}
		infos = append(infos, contracts.SymbolInfo{
			Symbol:     row.ISU_SRT_CD,
			Name:       row.ISU_ABBRV,
			Market:     row.MKT_TP_NM,
			SecType:    row.SECU_TP_CD,
			AdminIssue: row.ADMI_ISSU == "Y",
		})
	}

	c.logger.WithField("count", len(infos)).Info("Fetched symbol master from KRX")
	return infos, nil
}
