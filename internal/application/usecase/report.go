package usecase

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// displayReport exibe a tabela de custos por projeto e o resumo da execução.
func (uc *BillingUseCase) displayReport(report *entity.StorageReport) {
	uc.console.Print(uc.costTable(report.Projects).Render())

	s := report.Summary
	summary := uc.console.CreateTable()
	summary.AddColumn("Run Date")
	summary.AddColumn("Projects")
	summary.AddColumn("Files")
	summary.AddColumn("Empty")
	summary.AddColumn("Failed")
	summary.AddColumn("Unique Storage")
	summary.AddColumn("Total Storage")
	summary.AddColumn("Daily Cost (unique / total)")
	summary.AddRow(
		s.RunDate.Format(dayLayout),
		s.Projects,
		fmt.Sprintf("%d (%d distinct)", s.FileRecords, s.DistinctFiles),
		len(s.EmptyProjects),
		len(s.FailedProjects),
		formatBytes(s.UniqueSize),
		formatBytes(s.TotalSize),
		fmt.Sprintf("$%.2f / $%.2f", s.UniqueCost, s.TotalCost),
	)
	uc.console.Print(summary.Render())
}

// costTable monta a tabela de custos por projeto.
func (uc *BillingUseCase) costTable(costs []entity.ProjectStorageCost) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("Project")
	table.AddColumn("Name")
	table.AddColumn("Unique Live")
	table.AddColumn("Unique Archived")
	table.AddColumn("Total Live")
	table.AddColumn("Total Archived")
	table.AddColumn("Unique Cost")
	table.AddColumn("Total Cost")

	for _, c := range costs {
		table.AddRow(
			c.ProjectID,
			c.ProjectName,
			formatBytes(c.UniqueLive.Size),
			formatBytes(c.UniqueArchived.Size),
			formatBytes(c.TotalLive.Size),
			formatBytes(c.TotalArchived.Size),
			fmt.Sprintf("$%.4f", c.UniqueCost()),
			fmt.Sprintf("$%.4f", c.TotalCost()),
		)
	}
	return table
}

// exportReport exporta o relatório nos formatos pedidos e envia os arquivos
// ao bucket configurado. Falhas são registradas, não propagadas.
func (uc *BillingUseCase) exportReport(ctx context.Context, report *entity.StorageReport, cfg *types.Config) {
	if cfg.ReportName == "" || len(cfg.ReportType) == 0 {
		return
	}

	var exported []string
	for _, reportType := range cfg.ReportType {
		var (
			path string
			err  error
		)
		switch reportType {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(*report, cfg.ReportName, cfg.Dir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(*report, cfg.ReportName, cfg.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(*report, cfg.ReportName, cfg.Dir)
		default:
			uc.console.LogWarning("Unsupported report type '%s'", reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", reportType, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", reportType, path)
		exported = append(exported, path)
	}

	if uc.uploader == nil || len(exported) == 0 {
		return
	}
	if identity, err := uc.uploader.Identity(ctx); err != nil {
		uc.console.LogWarning("Could not resolve upload identity: %s", err)
	} else {
		uc.console.LogInfo("Uploading reports as %s", identity)
	}
	for _, path := range exported {
		location, err := uc.uploader.Upload(ctx, path)
		if err != nil {
			uc.console.LogError("Failed to upload %s: %s", path, err)
			continue
		}
		uc.console.LogSuccess("Uploaded report to %s", location)
	}
}

func formatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}
