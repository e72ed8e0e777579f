package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

type UploadController struct {
	Import         *service.ImportService
	Export         *service.ExportService
	UploadLogRepo  repository.UploadLogRepositoryInterface
	MaxUploadBytes int64
	Log            *zap.Logger
}

// ImportVendors accepts a multipart upload under the "file" field and runs
// the whole-file vendor import.
func (c *UploadController) ImportVendors(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes)
	if err := r.ParseMultipartForm(c.MaxUploadBytes); err != nil {
		writeValidation(w, "could not read upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidation(w, "missing file field")
		return
	}
	defer file.Close()

	summary, err := c.Import.ImportVendors(header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	c.Log.Info("vendor file imported",
		zap.String("file", header.Filename),
		zap.Int("inserted", summary.Inserted))
	writeJSON(w, http.StatusCreated, summary)
}

func (c *UploadController) ListLogs(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	logs, total, err := c.UploadLogRepo.List(offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"logs":       logs,
		"pagination": paginationMeta(offset, limit, total),
	})
}

// BlankTemplate serves the import spreadsheet with only the header row, so
// uploads come back in the columns the importer expects.
func (c *UploadController) BlankTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="vendor_import_template.xlsx"`)
	if err := c.Export.BlankTemplate(w); err != nil {
		c.Log.Error("failed to write blank template", zap.Error(err))
	}
}
