package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "일일 주문 파이프라인 실행",
	Long: `일일 주문 파이프라인을 한 번 실행합니다.

이 명령어는:
- 종목 마스터 수집 및 유니버스 필터링
- 섹터 층화 샘플링
- PBR/PER 역순위 스코어링
- 매수/매도 주문서 생성 및 저장

Example:
  go run ./cmd/valo trade
  go run ./cmd/valo trade --date 2026-01-05
  go run ./cmd/valo trade --dry-run`,
	RunE: runTrade,
}

var (
	tradeDate   string
	tradeDryRun bool
)

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().StringVar(&tradeDate, "date", "", "trade date (YYYY-MM-DD, default today)")
	tradeCmd.Flags().BoolVar(&tradeDryRun, "dry-run", false, "run without database persistence")
}

func runTrade(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if tradeDate != "" {
		parsed, err := time.Parse("2006-01-02", tradeDate)
		if err != nil {
			return fmt.Errorf("invalid --date, want YYYY-MM-DD: %w", err)
		}
		date = parsed
	}

	a, err := newApp(!tradeDryRun)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.pipeline.Run(context.Background(), date)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	fmt.Printf("=== %s run for %s ===\n", a.strategy.Name, result.Date.Format("2006-01-02"))
	fmt.Printf("universe: %d  sectors: %d  sampled: %d  scored: %d\n",
		result.UniverseCount, result.SectorCount, result.SampledCount, result.ScoredCount)
	fmt.Printf("buys: %d  sells: %d\n", result.BuyCount, result.SellCount)

	orders := result.Book.Orders()
	for _, o := range orders {
		side := "BUY "
		if o.IsSell() {
			side = "SELL"
		}
		fmt.Printf("  %s %-8s %d\n", side, o.Symbol, o.Qty)
	}
	if len(orders) == 0 {
		fmt.Println("  (no orders)")
	}
	return nil
}
