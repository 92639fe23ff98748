package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dykim-quant/valo/internal/api"
	"github.com/dykim-quant/valo/internal/api/handlers"
	"github.com/dykim-quant/valo/internal/store"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                  - Health check
  POST /api/v1/trade/run        - 파이프라인 실행 트리거
  GET  /api/v1/orders/latest    - 최근 주문서 조회
  GET  /api/v1/portfolio        - 포트폴리오 조회

Example:
  go run ./cmd/valo api
  go run ./cmd/valo api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default from env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	if err := store.Migrate(context.Background(), a.db.Pool); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	tradeHandler := handlers.NewTradeHandler(a.pipeline, a.orderRepo, a.manager, a.log)
	router := api.NewRouter(tradeHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
