package exports

import (
	"errors"
	"time"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatHTML Format = "html"
)

// Valid reports whether f is one of the stored export formats.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatPPTX, FormatHTML:
		return true
	}
	return false
}

// Export is a rendered artifact of a portfolio.
type Export struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	UserID      string    `json:"userId"`
	Format      Format    `json:"format"`
	FileURL     string    `json:"fileUrl"`
	FileSize    int64     `json:"fileSize"`
	GeneratedAt time.Time `json:"generatedAt"`
}

var (
	ErrNotFound          = errors.New("export not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNotReady          = errors.New("portfolio is not completed")
)
