package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quotely/internal/domain"
	"quotely/internal/service"
)

// sendFile writes a rendered export as a download.
func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// exportFormat reads ?format=, defaulting to CSV.
func exportFormat(c *gin.Context) (domain.ExportFormat, bool) {
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportCSV))))
	switch format {
	case domain.ExportCSV, domain.ExportXLSX:
		return format, true
	default:
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be csv or xlsx")
		return "", false
	}
}

func renderPDF(c *gin.Context, exports service.ExportService, kind domain.DocumentKind) {
	id, ok := parseID(c, string(kind))
	if !ok {
		return
	}

	file, err := exports.RenderPDF(c.Request.Context(), kind, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	sendFile(c, file)
}

func exportRegister(c *gin.Context, exports service.ExportService, kind domain.DocumentKind) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}

	file, err := exports.ExportRegister(c.Request.Context(), kind, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	sendFile(c, file)
}

func sendDocument(c *gin.Context, exports service.ExportService, kind domain.DocumentKind) {
	id, ok := parseID(c, string(kind))
	if !ok {
		return
	}

	result, err := exports.Send(c.Request.Context(), kind, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
