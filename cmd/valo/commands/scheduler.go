package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dykim-quant/valo/internal/scheduler"
	"github.com/dykim-quant/valo/internal/scheduler/jobs"
	"github.com/dykim-quant/valo/internal/store"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작",
	Long: `스케줄 작업을 등록하고 실행합니다.

Jobs:
  daily_trade    - 평일 장 마감 후 일일 파이프라인 실행
  sector_refresh - 주간 섹터 테이블 갱신

Example:
  go run ./cmd/valo scheduler
  go run ./cmd/valo scheduler --trade-schedule "0 0 17 * * MON-FRI"`,
	RunE: runScheduler,
}

var (
	tradeSchedule  string
	sectorSchedule string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&tradeSchedule, "trade-schedule", "", "daily trade cron (seconds field included)")
	schedulerCmd.Flags().StringVar(&sectorSchedule, "sector-schedule", "", "sector refresh cron (seconds field included)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	if err := store.Migrate(context.Background(), a.db.Pool); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewTradeJob(a.pipeline, tradeSchedule, a.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewSectorRefreshJob(a.naver, a.cfg.SectorFile, sectorSchedule, a.log)); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	return nil
}
