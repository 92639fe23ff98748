package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "valo",
	Short: "valo - KRX 일일 가치주 주문 파이프라인",
	Long: `valo Unified CLI

섹터 층화 샘플링과 PBR/PER 역순위 스코어링으로
일일 매수/매도 주문서를 생성하는 트레이딩 백엔드.

Usage:
  go run ./cmd/valo [command]

Examples:
  go run ./cmd/valo trade --dry-run
  go run ./cmd/valo api
  go run ./cmd/valo scheduler
  go run ./cmd/valo refresh-sectors`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
