package v1

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/importer"
)

// Import imports one batch of RIR spreadsheets
// POST /api/importar (multipart field "arquivos", or "file")
func (h *Handler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "arquivos excedem o tamanho máximo permitido"})
			return
		}
		badRequest(c, "formulário inválido")
		return
	}

	files := form.File["arquivos"]
	if len(files) == 0 {
		files = form.File["arquivos[]"]
	}
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		h.fail(c, &importer.StructuralError{Err: importer.ErrNoFiles})
		return
	}

	uploads := make([]importer.Upload, 0, len(files))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.fail(c, err)
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, importer.Upload{
			Name:     fh.Filename,
			Size:     fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     f,
		})
	}

	result, err := h.importer.Import(c.Request.Context(), uploads)
	if err != nil {
		h.logger.Warn("import rejected", zap.Int("files", len(uploads)), zap.Error(err))
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
