package handler

import (
	"context"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-funding-api/internal/dto"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
	"github.com/noah-isme/campus-funding-api/pkg/response"
)

type exportService interface {
	CreateExport(ctx context.Context, req dto.CreateExportRequest) (*dto.ExportJob, error)
	Open(ctx context.Context, filename string) (*os.File, error)
}

// ExportHandler exposes report generation and download endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create godoc
// @Summary Create funding report
// @Description Queue generation of an amount-sorted funding report
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.CreateExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	job, err := h.service.CreateExport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, job)
}

// Download godoc
// @Summary Download report
// @Tags Exports
// @Produce octet-stream
// @Param filename path string true "Report filename"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /exports/{filename} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	filename := path.Base(c.Param("filename"))

	file, err := h.service.Open(c.Request.Context(), filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat report"))
		return
	}

	contentType := "text/csv"
	if strings.HasSuffix(filename, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
