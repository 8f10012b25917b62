package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	"github.com/rzkdmln/sicakap/internal/domain/archive"
	"github.com/rzkdmln/sicakap/internal/domain/pencatatan"
	"github.com/rzkdmln/sicakap/internal/infrastructure/http/v1/dto"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

// ArchiveHandler serves scan upload and download endpoints.
type ArchiveHandler struct {
	*BaseHandler
	store *archive.Store
	repo  pencatatan.Repository
}

// NewArchiveHandler creates the handler.
func NewArchiveHandler(base *BaseHandler, store *archive.Store, repo pencatatan.Repository) *ArchiveHandler {
	return &ArchiveHandler{BaseHandler: base, store: store, repo: repo}
}

// Upload handles POST /arsip. Multipart form: file, reg_date, reg_number, nik.
// The scan is stored under the date partition with the canonical name.
func (h *ArchiveHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required"))
		return
	}

	regDate := c.PostForm("reg_date")
	nik := c.PostForm("nik")
	regNumber, err := strconv.Atoi(c.PostForm("reg_number"))
	if err != nil || regNumber <= 0 {
		h.Error(c, apperror.NewValidation("reg_number is required").
			WithDetail("reg_number", c.PostForm("reg_number")))
		return
	}

	name, err := archive.ScanFileName(regDate, regNumber, nik, fileHeader.Filename)
	if err != nil {
		h.Error(c, err)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewStorage(fmt.Errorf("open upload: %w", err)))
		return
	}
	defer src.Close()

	relPath, err := h.store.Save(c.Request.Context(), regDate, name, src)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.UploadResponse{ArchivePath: relPath, FileName: name})
}

// Download handles GET /arsip/download/*path.
func (h *ArchiveHandler) Download(c *gin.Context) {
	fullPath, err := h.store.Resolve(c.Param("path"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.File(fullPath)
}

// BulkUpload handles POST /arsip/bulk-upload. Each file must be named
// YYYYMMDD_REGNUMBER_SERVICECODE.pdf; matched files are stored and their
// record's archive_path backfilled. Unmatched files are reported, not fatal.
func (h *ArchiveHandler) BulkUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.Error(c, apperror.NewValidation("multipart form is required"))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.Error(c, apperror.NewValidation("no files provided"))
		return
	}

	resp := dto.BulkUploadResponse{
		Matched:   []dto.BulkUploadResult{},
		Unmatched: []dto.BulkUploadError{},
	}

	ctx := c.Request.Context()
	for _, fh := range files {
		parsed, err := archive.ParseBulkName(fh.Filename)
		if err != nil {
			resp.Unmatched = append(resp.Unmatched, dto.BulkUploadError{
				FileName: fh.Filename, Reason: "invalid filename",
			})
			continue
		}

		src, err := fh.Open()
		if err != nil {
			resp.Unmatched = append(resp.Unmatched, dto.BulkUploadError{
				FileName: fh.Filename, Reason: "unreadable file",
			})
			continue
		}

		relPath, err := h.store.Save(ctx, parsed.RegDate, fh.Filename, src)
		src.Close()
		if err != nil {
			resp.Unmatched = append(resp.Unmatched, dto.BulkUploadError{
				FileName: fh.Filename, Reason: "store failed",
			})
			continue
		}

		touched, err := h.repo.BackfillArchivePath(ctx, parsed.RegNumber, parsed.ServiceCode, parsed.RegDateCompact, relPath)
		if err != nil {
			logger.Error(ctx, "archive path backfill failed",
				"file", fh.Filename, "error", err)
			resp.Unmatched = append(resp.Unmatched, dto.BulkUploadError{
				FileName: fh.Filename, Reason: "backfill failed",
			})
			continue
		}
		if touched == 0 {
			resp.Unmatched = append(resp.Unmatched, dto.BulkUploadError{
				FileName: fh.Filename, Reason: "no matching record",
			})
			continue
		}

		resp.Matched = append(resp.Matched, dto.BulkUploadResult{
			FileName:    fh.Filename,
			ArchivePath: relPath,
			RegNumber:   parsed.RegNumber,
			RegDate:     parsed.RegDate,
		})
	}

	h.OK(c, resp)
}
