package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dykim-quant/valo/pkg/logger"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"with commas", "1,234,567,890", 1234567890},
		{"negative", "-500,000", -500000},
		{"dash means no data", "-", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAmount(tt.input); got != tt.want {
				t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecentPeriods(t *testing.T) {
	// As of 2026-01 the as-of quarter is Q1; walking two quarters back
	// lands on 2025 Q3 and continues backwards.
	asOf := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	periods := recentPeriods(asOf, 4)

	want := []int{202509, 202506, 202503, 202412}
	for i, p := range periods {
		if p.yearMonth() != want[i] {
			t.Errorf("period[%d] = %d, want %d", i, p.yearMonth(), want[i])
		}
	}
}

func TestPeriodYearMonth(t *testing.T) {
	if got := (period{year: 2025, report: reportHalf}).yearMonth(); got != 202506 {
		t.Errorf("yearMonth = %d, want 202506", got)
	}
	if got := (period{year: 2024, report: reportAnnual}).yearMonth(); got != 202412 {
		t.Errorf("yearMonth = %d, want 202412", got)
	}
}

func corpCodeZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("CORPCODE.xml")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte(`<result>
		<list><corp_code>00126380</corp_code><corp_name>삼성전자</corp_name><stock_code>005930</stock_code></list>
		<list><corp_code>00999999</corp_code><corp_name>비상장사</corp_name><stock_code> </stock_code></list>
	</result>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAccountSeries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/corpCode.xml", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("crtfc_key") != "test-key" {
			t.Error("missing api key")
		}
		w.Write(corpCodeZip(t))
	})
	mux.HandleFunc("/api/fnlttSinglAcntAll.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("corp_code") != "00126380" {
			t.Errorf("corp_code = %q", r.URL.Query().Get("corp_code"))
		}
		// Only the 2025 half-year filing exists.
		if r.URL.Query().Get("bsns_year") == "2025" && r.URL.Query().Get("reprt_code") == reportHalf {
			w.Write([]byte(`{"status":"000","message":"정상","list":[
				{"account_nm":"자산총계","fs_div":"CFS","thstrm_amount":"455,000,000,000,000"},
				{"account_nm":"부채총계","fs_div":"CFS","thstrm_amount":"95,000,000,000,000"}
			]}`))
			return
		}
		w.Write([]byte(`{"status":"013","message":"조회된 데이타가 없습니다."}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient("test-key", logger.Nop())
	client.baseURL = srv.URL
	client.httpClient = srv.Client()

	rows, err := client.AccountSeries(context.Background(), "005930", "111000", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AccountSeries: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].YearMonth != 202506 {
		t.Errorf("YearMonth = %d, want 202506", rows[0].YearMonth)
	}
	if rows[0].Value != 455_000_000_000_000 {
		t.Errorf("Value = %v", rows[0].Value)
	}
}

func TestAccountSeries_UnsupportedCode(t *testing.T) {
	client := NewClient("test-key", logger.Nop())
	if _, err := client.AccountSeries(context.Background(), "005930", "123000", time.Now()); err == nil {
		t.Error("expected error for unsupported account code")
	}
}

func TestCorpCode_Concurrent(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write(corpCodeZip(t))
	}))
	defer srv.Close()

	client := NewClient("test-key", logger.Nop())
	client.baseURL = srv.URL
	client.httpClient = srv.Client()

	// The fetcher resolves corp codes from several goroutines at once;
	// the lazy master load must stay safe under that access pattern.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := client.CorpCode(context.Background(), "005930")
			if err != nil {
				t.Errorf("CorpCode: %v", err)
				return
			}
			if code != "00126380" {
				t.Errorf("code = %q, want 00126380", code)
			}
		}()
	}
	wg.Wait()

	if got := fetches.Load(); got != 1 {
		t.Errorf("corp master fetched %d times, want 1", got)
	}
}

func TestCorpCode_UnknownStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(corpCodeZip(t))
	}))
	defer srv.Close()

	client := NewClient("test-key", logger.Nop())
	client.baseURL = srv.URL
	client.httpClient = srv.Client()

	if _, err := client.CorpCode(context.Background(), "999999"); err == nil {
		t.Error("expected error for unknown stock code")
	}
}
