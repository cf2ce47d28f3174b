package repository

import "context"

// ReportUploader ships exported report files to remote storage.
type ReportUploader interface {
	// Identity returns the account the uploads are made as.
	Identity(ctx context.Context) (string, error)

	// Upload copies a local file and returns its remote location.
	Upload(ctx context.Context, localPath string) (string, error)
}
