package jobs

import (
	"context"
	"fmt"

	"github.com/dykim-quant/valo/internal/external/naver"
	"github.com/dykim-quant/valo/internal/sector"
	"github.com/dykim-quant/valo/pkg/logger"
)

// SectorRefreshJob rebuilds the sector lookup file from the Naver
// industry pages. Weekly is plenty; sector membership moves slowly.
type SectorRefreshJob struct {
	client   *naver.Client
	path     string
	schedule string
	logger   *logger.Logger
}

// NewSectorRefreshJob creates the sector refresh job writing to path.
func NewSectorRefreshJob(client *naver.Client, path, schedule string, log *logger.Logger) *SectorRefreshJob {
	if schedule == "" {
		schedule = "0 0 7 * * SUN"
	}
	return &SectorRefreshJob{client: client, path: path, schedule: schedule, logger: log}
}

func (j *SectorRefreshJob) Name() string { return "sector_refresh" }

func (j *SectorRefreshJob) Schedule() string { return j.schedule }

// Run scrapes the industry tables and rewrites the lookup file.
func (j *SectorRefreshJob) Run(ctx context.Context) error {
	table, err := j.client.FetchSectorTable(ctx)
	if err != nil {
		return fmt.Errorf("fetch sector table: %w", err)
	}

	bySymbol := make(map[string]string)
	for name, members := range table {
		for _, symbol := range members {
			bySymbol[symbol] = name
		}
	}

	if err := sector.WriteFile(j.path, bySymbol); err != nil {
		return fmt.Errorf("write sector file: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"sectors": len(table),
		"symbols": len(bySymbol),
		"path":    j.path,
	}).Info("Sector lookup refreshed")
	return nil
}
