package krx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dykim-quant/valo/pkg/logger"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"with commas", "1,459,781", 1459781},
		{"plain", "73500", 73500},
		{"with spaces", " 1,234 ", 1234},
		{"zero", "0", 0},
		{"dash means no data", "-", 0},
		{"empty string", "", 0},
		{"invalid", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNumber(tt.input); got != tt.want {
				t.Errorf("parseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFetchSymbolMaster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("trdDd"); got != "20260105" {
			t.Errorf("trdDd = %q, want 20260105", got)
		}
		w.Write([]byte(`{"OutBlock_1": [
			{"ISU_SRT_CD": "005930", "ISU_ABBRV": "삼성전자", "MKT_TP_NM": "유가증권", "SECU_TP_CD": "ST", "ADMI_ISSU": "N"},
			{"ISU_SRT_CD": "123456", "ISU_ABBRV": "관리종목", "MKT_TP_NM": "코스닥", "SECU_TP_CD": "ST", "ADMI_ISSU": "Y"},
			{"ISU_SRT_CD": "", "ISU_ABBRV": "빈행", "MKT_TP_NM": "유가증권", "SECU_TP_CD": "ST", "ADMI_ISSU": "N"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop(), 100)
	client.baseURL = srv.URL

	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	infos, err := client.FetchSymbolMaster(context.Background(), date)
	if err != nil {
		t.Fatalf("FetchSymbolMaster: %v", err)
	}

	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2 (empty symbol row dropped)", len(infos))
	}
	if infos[0].Symbol != "005930" || infos[0].AdminIssue {
		t.Errorf("unexpected first row: %+v", infos[0])
	}
	if !infos[1].AdminIssue {
		t.Error("admin issue flag should be set for ADMI_ISSU=Y")
	}
}

func TestFetchDailyQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"OutBlock_1": [
			{"ISU_SRT_CD": "005930", "ISU_ABBRV": "삼성전자", "TDD_CLSPRC": "73,500", "MKTCAP": "438,000,000,000,000", "LIST_SHRS": "5,969,782,550"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(logger.Nop(), 100)
	client.baseURL = srv.URL

	quotes, err := client.FetchDailyQuotes(context.Background(), "KOSPI", time.Now())
	if err != nil {
		t.Fatalf("FetchDailyQuotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("len = %d, want 1", len(quotes))
	}
	if quotes[0].Close != 73500 {
		t.Errorf("Close = %v, want 73500", quotes[0].Close)
	}
	if quotes[0].Shares != 5969782550 {
		t.Errorf("Shares = %v, want 5969782550", quotes[0].Shares)
	}
}

func TestFetchDailyQuotes_UnsupportedMarket(t *testing.T) {
	client := NewClient(logger.Nop(), 100)
	if _, err := client.FetchDailyQuotes(context.Background(), "KONEX", time.Now()); err == nil {
		t.Error("expected error for unsupported market")
	}
}
