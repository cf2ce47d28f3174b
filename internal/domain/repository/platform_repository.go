package repository

import (
	"context"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// PlatformRepository defines the interface for the genomics platform API.
type PlatformRepository interface {
	// Whoami verifies the credentials and returns the authenticated user id.
	Whoami(ctx context.Context) (string, error)

	// ListProjects returns every project billed to the organization.
	ListProjects(ctx context.Context, org string) ([]entity.Project, error)

	// ListFiles returns every file visible in a project, following pagination.
	ListFiles(ctx context.Context, projectID string) ([]entity.RawFile, error)
}
