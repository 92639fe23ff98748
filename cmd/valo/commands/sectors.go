package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dykim-quant/valo/internal/external/naver"
	"github.com/dykim-quant/valo/internal/sector"
	"github.com/dykim-quant/valo/pkg/config"
	"github.com/dykim-quant/valo/pkg/httputil"
	"github.com/dykim-quant/valo/pkg/logger"
)

var refreshSectorsCmd = &cobra.Command{
	Use:   "refresh-sectors",
	Short: "섹터 테이블 갱신",
	Long: `네이버 금융 업종 페이지를 수집하여 섹터 테이블 파일을 갱신합니다.

Example:
  go run ./cmd/valo refresh-sectors`,
	RunE: runRefreshSectors,
}

func init() {
	rootCmd.AddCommand(refreshSectorsCmd)
}

// runRefreshSectors builds the sector file without touching the DB, so
// it also works on a fresh install before any trading state exists.
func runRefreshSectors(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	client := naver.NewClient(httputil.New(log), log, cfg.Naver.RateLimit)

	table, err := client.FetchSectorTable(context.Background())
	if err != nil {
		return fmt.Errorf("fetch sector table: %w", err)
	}

	bySymbol := make(map[string]string)
	for name, members := range table {
		for _, symbol := range members {
			bySymbol[symbol] = name
		}
	}

	if err := sector.WriteFile(cfg.SectorFile, bySymbol); err != nil {
		return fmt.Errorf("write sector file: %w", err)
	}

	fmt.Printf("wrote %d symbols across %d sectors to %s\n", len(bySymbol), len(table), cfg.SectorFile)
	return nil
}
