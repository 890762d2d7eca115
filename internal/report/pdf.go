// Package report renders the fixed-layout PDF document for a completed scan.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"radiology-app-server/internal/models"
)

// ErrScanNotCompleted is returned when rendering is attempted on a scan that
// has not finished review.
var ErrScanNotCompleted = errors.New("scan is not completed")

const (
	pageMargin = 19.0 // mm
	qrSizeMM   = 30.0
	qrSizePx   = 256
	longDate   = "January 2, 2006 at 3:04 PM"
	labelColW  = 45.0
	lineHeight = 7.0
)

// Renderer produces the report document. appURL is the base for the
// verification link encoded in the QR code.
type Renderer struct {
	appURL string
}

// NewRenderer creates a Renderer.
func NewRenderer(appURL string) *Renderer {
	return &Renderer{appURL: strings.TrimRight(appURL, "/")}
}

// FileName is the artifact name for a scan's report, keyed by patient name
// and scan id.
func FileName(scan *models.Scan) string {
	return fmt.Sprintf("report_%s_%s.pdf", strings.ReplaceAll(scan.PatientName, " ", "_"), scan.ID)
}

// Render produces the PDF bytes for a completed scan. Sections, in order:
// header, patient info, dates, report text, optional AI block, reviewer info,
// signature, verification QR code, footer.
func (r *Renderer) Render(scan *models.Scan, now time.Time) ([]byte, error) {
	if !scan.Completed() {
		return nil, ErrScanNotCompleted
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 25, pageMargin)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	// Header
	setPurple(pdf)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "AI-ASSISTED RADIOLOGY REPORTING SYSTEM", "", 1, "C", false, 0, "")
	setGrey(pdf)
	pdf.SetFont("Helvetica", "I", 12)
	pdf.CellFormat(0, 8, "Advanced Diagnostic Imaging Center", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetDrawColor(111, 66, 193)
	pdf.SetLineWidth(0.8)
	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(6)

	// Patient information
	r.heading(pdf, "PATIENT INFORMATION")
	r.pairRow(pdf, "Patient Name:", scan.PatientName, "Patient ID:", scan.PatientID)
	r.pairRow(pdf, "Age:", strconv.Itoa(scan.Age), "Gender:", scan.Gender)
	r.pairRow(pdf, "Scan Type:", scan.ScanType, "Status:", string(scan.Status))
	pdf.Ln(4)

	// Dates
	reviewedAt := "N/A"
	if scan.ReviewedAt != nil {
		reviewedAt = scan.ReviewedAt.Format(longDate)
	}
	r.labelRow(pdf, "Scan Upload Date:", scan.UploadedAt.Format(longDate))
	r.labelRow(pdf, "Report Completion Date:", reviewedAt)
	pdf.Ln(6)

	// Report text
	r.heading(pdf, "RADIOLOGIST REPORT")
	reportText := scan.RadiologistReport
	if reportText == "" {
		reportText = "No report available."
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(0.3)
	pdf.SetFillColor(245, 245, 220)
	pdf.MultiCell(0, 6, reportText, "1", "L", true)
	pdf.Ln(6)

	// AI block only when a prediction exists
	if scan.AIPrediction != "" {
		r.heading(pdf, "AI ANALYSIS")
		confidence := "N/A"
		if scan.AIConfidence != nil {
			confidence = fmt.Sprintf("%.1f%%", *scan.AIConfidence)
		}
		r.labelRow(pdf, "AI Prediction:", scan.AIPrediction)
		r.labelRow(pdf, "Confidence Score:", confidence)
		pdf.Ln(4)
	}

	// Reviewer
	pdf.Ln(2)
	r.labelRow(pdf, "Reviewed By:", "Dr. "+scan.ReviewedBy)
	r.labelRow(pdf, "Role:", "Radiologist")

	// Signature
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "__________________________", "", 1, "L", false, 0, "")
	setGrey(pdf)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Digital Signature", "", 1, "L", false, 0, "")

	// Verification QR code encoding the deterministic review URL
	verificationURL := fmt.Sprintf("%s/radiologist/analyze/%s/", r.appURL, scan.ID)
	qrPNG, err := qrcode.Encode(verificationURL, qrcode.Medium, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("encoding verification QR: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verification-qr", opts, bytes.NewReader(qrPNG))

	qrY := pdf.GetY() + 6
	pdf.ImageOptions("verification-qr", pageMargin, qrY, qrSizeMM, qrSizeMM, false, opts, 0, "")
	pdf.SetXY(pageMargin+qrSizeMM+8, qrY+8)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, "Scan Verification QR Code", "", 1, "L", false, 0, "")
	pdf.SetX(pageMargin + qrSizeMM + 8)
	setGrey(pdf)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Scan to verify report authenticity", "", 1, "L", false, 0, "")
	pdf.SetY(qrY + qrSizeMM + 6)

	// Footer
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(0.3)
	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(3)
	setGrey(pdf)
	pdf.SetFont("Helvetica", "I", 8)
	footer := fmt.Sprintf("Report generated on %s | Document ID: %s", now.Format(longDate), scan.ID)
	pdf.CellFormat(0, 5, footer, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("building PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) heading(pdf *fpdf.Fpdf, title string) {
	setPurple(pdf)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// pairRow writes a four-column label/value row of the patient info table.
func (r *Renderer) pairRow(pdf *fpdf.Fpdf, label1, value1, label2, value2 string) {
	pdf.SetFont("Helvetica", "B", 10)
	setPurple(pdf)
	pdf.CellFormat(labelColW, lineHeight, label1, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(48, lineHeight, value1, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	setPurple(pdf)
	pdf.CellFormat(labelColW, lineHeight, label2, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, lineHeight, value2, "", 1, "L", false, 0, "")
}

// labelRow writes a two-column label/value row.
func (r *Renderer) labelRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	setPurple(pdf)
	pdf.CellFormat(labelColW, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, lineHeight, value, "", 1, "L", false, 0, "")
}

func setPurple(pdf *fpdf.Fpdf) { pdf.SetTextColor(111, 66, 193) }
func setGrey(pdf *fpdf.Fpdf)   { pdf.SetTextColor(128, 128, 128) }
