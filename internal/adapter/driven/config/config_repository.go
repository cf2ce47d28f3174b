package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/genomics-finops-go/internal/domain/repository"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// Variáveis de ambiente reconhecidas.
const (
	EnvOrganization = "FINOPS_ORG"
	EnvAPIServer    = "FINOPS_API_SERVER"
	EnvAPIToken     = "FINOPS_API_TOKEN"
	EnvLiveRate     = "FINOPS_LIVE_RATE"
	EnvArchivedRate = "FINOPS_ARCHIVED_RATE"
	EnvDatabase     = "FINOPS_DB_PATH"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileData, err := readConfigFile(filePath)
	if err != nil {
		return nil, err
	}

	var config types.Config
	if err := decodeConfig(filePath, fileData, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// fileRates guarda os preços presentes no arquivo. Nil indica chave ausente;
// zero é um preço válido.
type fileRates struct {
	LiveRate     *float64 `json:"live_storage_cost_per_gib_month" yaml:"live_storage_cost_per_gib_month" toml:"live_storage_cost_per_gib_month"`
	ArchivedRate *float64 `json:"archived_storage_cost_per_gib_month" yaml:"archived_storage_cost_per_gib_month" toml:"archived_storage_cost_per_gib_month"`
}

func readConfigFile(filePath string) ([]byte, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return fileData, nil
}

func decodeConfig(filePath string, data []byte, v interface{}) error {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", fileExtension)
	}
	return nil
}

// Resolve monta a configuração efetiva: padrões, depois o arquivo (se
// informado), depois o ambiente. Flags são aplicadas pela CLI.
func (r *ConfigRepositoryImpl) Resolve(filePath string, lookupEnv func(string) (string, bool)) (*types.Config, error) {
	cfg := types.DefaultConfig()

	if filePath != "" {
		fileData, err := readConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		var fileCfg types.Config
		if err := decodeConfig(filePath, fileData, &fileCfg); err != nil {
			return nil, err
		}
		var rates fileRates
		if err := decodeConfig(filePath, fileData, &rates); err != nil {
			return nil, err
		}
		mergeConfig(&cfg, &fileCfg, rates)
	}

	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if err := applyEnv(&cfg, lookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfig copia para dst os campos definidos em src. Os preços vêm de
// rates, onde a presença da chave decide.
func mergeConfig(dst, src *types.Config, rates fileRates) {
	setString(&dst.Organization, src.Organization)
	setString(&dst.APIServer, src.APIServer)
	setString(&dst.FetchTimeout, src.FetchTimeout)
	setString(&dst.Database, src.Database)
	setString(&dst.ReportName, src.ReportName)
	setString(&dst.Dir, src.Dir)
	setString(&dst.S3Bucket, src.S3Bucket)
	setString(&dst.S3Prefix, src.S3Prefix)
	setString(&dst.AWSProfile, src.AWSProfile)
	setString(&dst.AWSRegion, src.AWSRegion)
	setString(&dst.MetricsFile, src.MetricsFile)
	setString(&dst.Schedule, src.Schedule)

	if rates.LiveRate != nil {
		dst.LiveRate = *rates.LiveRate
	}
	if rates.ArchivedRate != nil {
		dst.ArchivedRate = *rates.ArchivedRate
	}
	if src.Workers != 0 {
		dst.Workers = src.Workers
	}
	if len(src.ReportType) > 0 {
		dst.ReportType = src.ReportType
	}
}

func applyEnv(cfg *types.Config, lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(EnvOrganization); ok && v != "" {
		cfg.Organization = v
	}
	if v, ok := lookupEnv(EnvAPIServer); ok && v != "" {
		cfg.APIServer = v
	}
	if v, ok := lookupEnv(EnvAPIToken); ok {
		cfg.APIToken = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv(EnvDatabase); ok && v != "" {
		cfg.Database = v
	}

	rates := []struct {
		env string
		dst *float64
	}{
		{EnvLiveRate, &cfg.LiveRate},
		{EnvArchivedRate, &cfg.ArchivedRate},
	}
	for _, rate := range rates {
		v, ok := lookupEnv(rate.env)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", rate.env, v, err)
		}
		*rate.dst = f
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
