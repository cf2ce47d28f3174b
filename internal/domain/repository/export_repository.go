package repository

import (
	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report entity.StorageReport, filename string, outputDir string) (string, error)
	ExportToJSON(report entity.StorageReport, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.StorageReport, filename string, outputDir string) (string, error)
}
