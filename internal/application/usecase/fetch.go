package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

type fetchResult struct {
	listing entity.ProjectFiles
	took    time.Duration
}

// fetchInventory lists the files of every project with at most workers
// listings in flight. Each worker hands its result to this goroutine, which
// alone collects them, so nothing is shared between workers. A failed or
// timed out listing is kept with its error and billed as an empty project;
// only cancellation of ctx stops the fetch.
func (uc *BillingUseCase) fetchInventory(
	ctx context.Context,
	projects []entity.Project,
	workers int,
	timeout time.Duration,
) ([]entity.ProjectFiles, error) {
	if workers < 1 {
		workers = 1
	}

	progress := uc.console.ProgressWithTotal(len(projects), "Fetching file listings")
	defer progress.Stop()

	results := make(chan fetchResult)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var waitErr error
	go func() {
		for _, p := range projects {
			projectID := p.ID
			g.Go(func() error {
				res := uc.fetchProject(gctx, projectID, timeout)
				select {
				case results <- res:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		waitErr = g.Wait()
		close(results)
	}()

	listings := make([]entity.ProjectFiles, 0, len(projects))
	for res := range results {
		progress.Increment()
		uc.metrics.ObserveFetch(res.listing.ProjectID, len(res.listing.Files), res.listing.Err, res.took)
		if res.listing.Err != nil {
			uc.console.LogWarning("Failed to list files of %s, billing it as empty: %s", res.listing.ProjectID, res.listing.Err)
		}
		listings = append(listings, res.listing)
	}

	if waitErr != nil {
		return nil, fmt.Errorf("file listing interrupted: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("file listing interrupted: %w", err)
	}
	return listings, nil
}

func (uc *BillingUseCase) fetchProject(ctx context.Context, projectID string, timeout time.Duration) fetchResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	files, err := uc.platformRepo.ListFiles(ctx, projectID)
	took := time.Since(started)
	if err != nil {
		return fetchResult{listing: entity.ProjectFiles{ProjectID: projectID, Err: err}, took: took}
	}
	return fetchResult{listing: entity.ProjectFiles{ProjectID: projectID, Files: files}, took: took}
}
