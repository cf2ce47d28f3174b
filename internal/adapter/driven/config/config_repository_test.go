package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfigFile_Formats(t *testing.T) {
	files := map[string]string{
		"finops.toml": `
organization = "org-lab"
workers = 8
live_storage_cost_per_gib_month = 0.03
report_type = ["csv", "pdf"]
`,
		"finops.yaml": `
organization: org-lab
workers: 8
live_storage_cost_per_gib_month: 0.03
report_type: [csv, pdf]
`,
		"finops.json": `{
  "organization": "org-lab",
  "workers": 8,
  "live_storage_cost_per_gib_month": 0.03,
  "report_type": ["csv", "pdf"]
}`,
	}

	repo := NewConfigRepository()
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := repo.LoadConfigFile(writeFile(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, "org-lab", cfg.Organization)
			assert.Equal(t, 8, cfg.Workers)
			assert.InDelta(t, 0.03, cfg.LiveRate, 1e-12)
			assert.Equal(t, []string{"csv", "pdf"}, cfg.ReportType)
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")

	_, err = repo.LoadConfigFile(writeFile(t, "finops.ini", "organization=x"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeFile(t, "finops.json", "{"))
	assert.ErrorContains(t, err, "error parsing JSON file")
}

func TestResolve_Precedence(t *testing.T) {
	path := writeFile(t, "finops.yaml", `
organization: org-from-file
database: /var/lib/finops/file.db
archived_storage_cost_per_gib_month: 0.004
workers: 2
`)
	env := envMap(map[string]string{
		EnvOrganization: "org-from-env",
		EnvAPIToken:     "  secret-token\n",
		EnvLiveRate:     "0.05",
	})

	cfg, err := NewConfigRepository().Resolve(path, env)
	require.NoError(t, err)

	defaults := types.DefaultConfig()
	assert.Equal(t, "org-from-env", cfg.Organization)
	assert.Equal(t, "secret-token", cfg.APIToken)
	assert.InDelta(t, 0.05, cfg.LiveRate, 1e-12)
	assert.InDelta(t, 0.004, cfg.ArchivedRate, 1e-12)
	assert.Equal(t, "/var/lib/finops/file.db", cfg.Database)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, defaults.APIServer, cfg.APIServer)
	assert.Equal(t, defaults.FetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, defaults.Schedule, cfg.Schedule)
}

func TestResolve_DefaultsOnly(t *testing.T) {
	cfg, err := NewConfigRepository().Resolve("", envMap(nil))
	require.NoError(t, err)

	want := types.DefaultConfig()
	assert.Equal(t, &want, cfg)
}

func TestResolve_InvalidRateInEnvironment(t *testing.T) {
	_, err := NewConfigRepository().Resolve("", envMap(map[string]string{EnvArchivedRate: "cheap"}))
	assert.ErrorContains(t, err, EnvArchivedRate)
}

func TestResolve_ZeroRateInFileIsKept(t *testing.T) {
	files := map[string]string{
		"finops.toml": "archived_storage_cost_per_gib_month = 0.0\n",
		"finops.yaml": "archived_storage_cost_per_gib_month: 0\n",
		"finops.json": `{"archived_storage_cost_per_gib_month": 0}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := NewConfigRepository().Resolve(writeFile(t, name, content), envMap(nil))
			require.NoError(t, err)

			assert.Zero(t, cfg.ArchivedRate)
			assert.InDelta(t, types.DefaultConfig().LiveRate, cfg.LiveRate, 1e-12)
		})
	}
}
