package repository

import (
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)

	// Resolve layers defaults, the optional config file and the environment.
	Resolve(filePath string, lookupEnv func(string) (string, bool)) (*types.Config, error)
}
