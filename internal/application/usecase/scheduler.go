package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// RunScheduled runs the billing job on a cron schedule (UTC) until ctx is
// done. A failed run is logged and the next one still fires; a run that is
// still going when the next fire time comes makes that fire a no-op.
func (uc *BillingUseCase) RunScheduled(ctx context.Context, expr string, cfg *types.Config) error {
	logger := cron.PrintfLogger(uc.console)
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(expr, func() {
		runCfg := *cfg
		runCfg.RunDate = time.Time{}
		if _, err := uc.RunStorageBilling(ctx, &runCfg); err != nil {
			uc.console.LogError("Scheduled billing run failed: %s", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	c.Start()
	uc.console.LogInfo("Billing job scheduled with %q (UTC). Waiting for the next run...", expr)

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	uc.console.LogInfo("Scheduler stopped")
	return nil
}
