package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gatepass/internal/bulkimport"
	"gatepass/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ImportController handles bulk ingestion of students and historical gate
// passes from spreadsheet uploads.
type ImportController struct {
	db *gorm.DB
}

func NewImportController(db *gorm.DB) *ImportController {
	return &ImportController{db: db}
}

var importExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// receiveImportFile validates the upload's extension and stages it in a temp
// file. Returns an empty path after writing the error response itself.
func receiveImportFile(c *gin.Context) string {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   "No file uploaded. Use multipart field 'file'",
		})
		return ""
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !importExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid file format",
			"error":   "Only .csv, .xlsx and .xls files are supported",
		})
		return ""
	}

	path, err := utils.SaveTempUpload(c, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to store upload",
			"error":   err.Error(),
		})
		return ""
	}
	return path
}

// ImportStudents ingests a student roster. Partial success is a 200 with the
// per-row outcomes; the caller decides what to do with the failed rows.
func (ic *ImportController) ImportStudents(c *gin.Context) {
	path := receiveImportFile(c)
	if path == "" {
		return
	}
	defer os.Remove(path)

	importer := bulkimport.NewStudentImporter(ic.db, path)
	clean := importer.Import()

	message := "All students imported successfully"
	if !clean {
		message = "Import completed with errors"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data": gin.H{
			"imported_count": len(importer.Successes),
			"error_count":    len(importer.Errors),
			"imported":       importer.Successes,
			"errors":         importer.Errors,
		},
	})
}

// ImportGatePasses ingests historical gate pass records.
func (ic *ImportController) ImportGatePasses(c *gin.Context) {
	path := receiveImportFile(c)
	if path == "" {
		return
	}
	defer os.Remove(path)

	importer := bulkimport.NewGatePassImporter(ic.db, path)
	clean := importer.Import()

	message := "All gate passes imported successfully"
	if !clean {
		message = "Import completed with errors"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data": gin.H{
			"imported_count": len(importer.Successes),
			"error_count":    len(importer.Errors),
			"imported":       importer.Successes,
			"errors":         importer.Errors,
		},
	})
}
