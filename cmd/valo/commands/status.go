package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "포트폴리오 및 최근 주문서 조회",
	Long: `현재 포트폴리오 상태와 가장 최근 주문서를 출력합니다.

Example:
  go run ./cmd/valo status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	status, err := a.manager.Snapshot(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("portfolio snapshot: %w", err)
	}

	fmt.Println("=== Portfolio ===")
	if status.CashKnown {
		fmt.Printf("cash: %.0f\n", status.Cash)
	} else {
		fmt.Println("cash: (no history yet)")
	}
	for _, pos := range status.Positions {
		fmt.Printf("  %-8s qty=%-8d entry=%-10.0f now=%-10.0f p/l=%+.2f%%\n",
			pos.Symbol, pos.Qty, pos.TradePrice, pos.CurrentPrice, pos.ProfitLossPct())
	}
	if len(status.Positions) == 0 {
		fmt.Println("  (no open positions)")
	}

	date, book, err := a.orderRepo.LatestBook(ctx)
	if err != nil {
		fmt.Println("\n=== Orders ===\n  (no stored order books)")
		return nil
	}

	fmt.Printf("\n=== Orders %s ===\n", date.Format("2006-01-02"))
	orders := book.Orders()
	sort.Slice(orders, func(i, j int) bool { return orders[i].Symbol < orders[j].Symbol })
	for _, o := range orders {
		side := "BUY "
		if o.IsSell() {
			side = "SELL"
		}
		fmt.Printf("  %s %-8s %d\n", side, o.Symbol, o.Qty)
	}
	return nil
}
