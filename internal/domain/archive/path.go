// Package archive stores scanned supporting documents in a
// date-partitioned tree: yyyy/yyyymm/yyyymmdd/filename.
package archive

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
)

// allowedExtensions for uploaded scans.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// bulkNamePattern matches YYYYMMDD_REGNUMBER_SERVICECODE.pdf.
var bulkNamePattern = regexp.MustCompile(`^(\d{8})_(\d+)_([A-Za-z]+)\.pdf$`)

// AllowedExtension reports whether the filename carries an accepted
// extension.
func AllowedExtension(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// TreePath builds the relative archive path for a YYYY-MM-DD registration
// date: yyyy/yyyymm/yyyymmdd/filename. Forward slashes regardless of OS,
// the value is stored in the database and used in URLs.
func TreePath(regDate, filename string) (string, error) {
	t, err := time.Parse("2006-01-02", regDate)
	if err != nil {
		return "", apperror.NewValidation("invalid registration date, use YYYY-MM-DD").
			WithDetail("reg_date", regDate)
	}
	year := t.Format("2006")
	month := t.Format("200601")
	day := t.Format("20060102")
	return path.Join(year, month, day, filename), nil
}

// ScanFileName builds the canonical stored name for a single upload:
// YYYYMMDD_REGNUMBER_NIK.ext.
func ScanFileName(regDate string, regNumber int, nik, originalName string) (string, error) {
	t, err := time.Parse("2006-01-02", regDate)
	if err != nil {
		return "", apperror.NewValidation("invalid registration date, use YYYY-MM-DD").
			WithDetail("reg_date", regDate)
	}
	idx := strings.LastIndex(originalName, ".")
	if idx < 0 {
		return "", apperror.NewValidation("file has no extension")
	}
	ext := strings.ToLower(originalName[idx+1:])
	if !allowedExtensions[ext] {
		return "", apperror.NewValidation("file type not allowed").
			WithDetail("extension", ext)
	}
	return fmt.Sprintf("%s_%d_%s.%s", t.Format("20060102"), regNumber, nik, ext), nil
}

// BulkName is a parsed bulk-upload filename.
type BulkName struct {
	RegDateCompact string // YYYYMMDD
	RegDate        string // YYYY-MM-DD
	RegNumber      int
	ServiceCode    string
}

// ParseBulkName parses YYYYMMDD_REGNUMBER_SERVICECODE.pdf names used by
// the bulk uploader to match scans to existing records.
func ParseBulkName(filename string) (*BulkName, error) {
	m := bulkNamePattern.FindStringSubmatch(filename)
	if m == nil {
		return nil, apperror.NewValidation("filename must be YYYYMMDD_NUMBER_CODE.pdf").
			WithDetail("filename", filename)
	}
	if _, err := time.Parse("20060102", m[1]); err != nil {
		return nil, apperror.NewValidation("filename carries an invalid date").
			WithDetail("filename", filename)
	}
	num, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, apperror.NewValidation("filename carries an invalid number").
			WithDetail("filename", filename)
	}
	compact := m[1]
	return &BulkName{
		RegDateCompact: compact,
		RegDate:        fmt.Sprintf("%s-%s-%s", compact[:4], compact[4:6], compact[6:8]),
		RegNumber:      num,
		ServiceCode:    strings.ToUpper(m[3]),
	}, nil
}

// CleanRelPath validates a client-supplied archive path. Rejects absolute
// paths and traversal outside the archive root.
func CleanRelPath(archivePath string) (string, error) {
	if archivePath == "" {
		return "", apperror.NewValidation("archive path is required")
	}
	cleaned := path.Clean(strings.ReplaceAll(archivePath, "\\", "/"))
	if strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", apperror.NewValidation("invalid archive path").
			WithDetail("path", archivePath)
	}
	return cleaned, nil
}
