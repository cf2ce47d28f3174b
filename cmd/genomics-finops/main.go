package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/diillson/genomics-finops-go/internal/adapter/driven/config"
	"github.com/diillson/genomics-finops-go/internal/adapter/driven/export"
	"github.com/diillson/genomics-finops-go/internal/adapter/driven/metrics"
	"github.com/diillson/genomics-finops-go/internal/adapter/driven/platform"
	"github.com/diillson/genomics-finops-go/internal/adapter/driven/store"
	"github.com/diillson/genomics-finops-go/internal/adapter/driven/upload"
	"github.com/diillson/genomics-finops-go/internal/adapter/driving/cli"
	"github.com/diillson/genomics-finops-go/internal/application/usecase"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
	"github.com/diillson/genomics-finops-go/pkg/console"
	"github.com/diillson/genomics-finops-go/pkg/version"
)

func main() {
	consoleImpl := console.NewConsole()

	app := cli.NewCLIApp(version.Version, config.NewConfigRepository(), consoleImpl)
	app.SetUseCaseFactory(func(ctx context.Context, cfg *types.Config) (*usecase.BillingUseCase, func() error, error) {
		return newBillingUseCase(ctx, cfg, consoleImpl)
	})

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newBillingUseCase liga os adaptadores à configuração resolvida.
func newBillingUseCase(ctx context.Context, cfg *types.Config, consoleImpl *console.Console) (*usecase.BillingUseCase, func() error, error) {
	db, err := store.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	billingUseCase := usecase.NewBillingUseCase(
		platform.NewPlatformRepository(cfg.APIServer, cfg.APIToken),
		store.NewCostRepository(db),
		export.NewExportRepository(),
		consoleImpl,
	)

	if cfg.S3Bucket != "" {
		uploader, err := upload.NewS3Uploader(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSProfile, cfg.AWSRegion)
		if err != nil {
			return nil, nil, errors.Join(err, db.Close())
		}
		billingUseCase.SetUploader(uploader)
	}

	if cfg.MetricsFile != "" {
		billingUseCase.SetMetrics(metrics.NewPrometheusRecorder(cfg.MetricsFile))
	}

	return billingUseCase, db.Close, nil
}
