package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"bifacial-sweep/internal/analysis"
	"bifacial-sweep/internal/model"
	"bifacial-sweep/internal/sweep"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin       = 12.0  // mm
	pdfContentWidth = 186.0 // A4 portrait minus margins
	pdfLineHeight   = 6.0
)

// PDFInfo is the descriptive header of a PDF report.
type PDFInfo struct {
	Title     string
	Location  string
	Generated time.Time
}

// BuildPDF writes a report with the parameter recap, the per-tilt table, the
// optimum summary and, when chartPNG is non-empty, the chart.
func BuildPDF(path string, info PDFInfo, res *sweep.Result, sys model.SystemParams, chartPNG []byte) error {
	pdf, err := newReportPDF(info, res, sys, chartPNG)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF writes the same report to w.
func WritePDF(w io.Writer, info PDFInfo, res *sweep.Result, sys model.SystemParams, chartPNG []byte) error {
	pdf, err := newReportPDF(info, res, sys, chartPNG)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func newReportPDF(info PDFInfo, res *sweep.Result, sys model.SystemParams, chartPNG []byte) (*gofpdf.Fpdf, error) {
	if res == nil || len(res.Results) == 0 {
		return nil, fmt.Errorf("no sweep results to report")
	}
	if info.Title == "" {
		info.Title = "Bifacial vs monofacial tilt sweep"
	}
	if info.Generated.IsZero() {
		info.Generated = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pdfContentWidth, 10, info.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	sub := info.Generated.Format("2006-01-02 15:04")
	if info.Location != "" {
		sub = info.Location + " - " + sub
	}
	pdf.CellFormat(pdfContentWidth, pdfLineHeight, sub, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "System parameters")
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Total front area: %g m2", sys.FrontAreaM2),
		fmt.Sprintf("Module efficiency: %.1f%%", sys.ModuleEfficiency*100),
		fmt.Sprintf("Bifaciality factor: %.2f", sys.BifacialityFactor),
		fmt.Sprintf("Simulated period: %d samples of %g h", res.Samples, res.IntervalHours),
	} {
		pdf.CellFormat(pdfContentWidth, pdfLineHeight, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	heading(pdf, "Optimal tilt")
	pdf.SetFont("Arial", "", 10)
	s := res.Summary
	for _, line := range []string{
		fmt.Sprintf("Bifacial: %d deg, %.2f kWh/year", s.BestBifacialTilt, s.MaxBifacialKWh),
		fmt.Sprintf("Monofacial: %d deg, %.2f kWh/year", s.BestMonofacialTilt, s.MaxMonofacialKWh),
		fmt.Sprintf("Bifacial gain at its optimum: %.2f%%", s.GainAtBifacialOptimumPct),
		fmt.Sprintf("Bifacial gain at the monofacial optimum: %.2f%%", s.GainAtMonofacialOptimumPct),
	} {
		pdf.CellFormat(pdfContentWidth, pdfLineHeight, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if len(chartPNG) > 0 {
		pdf.RegisterImageOptionsReader("chart", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(chartPNG))
		h := pdfContentWidth / 2
		pdf.ImageOptions("chart", pdfMargin, pdf.GetY(), pdfContentWidth, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetY(pdf.GetY() + h + 4)
	}

	heading(pdf, "Annual production per tilt")
	best := map[int]bool{s.BestBifacialTilt: true, s.BestMonofacialTilt: true}
	rank := map[int]int{}
	for _, r := range analysis.RankByBifacial(res.Results) {
		rank[r.TiltDegrees] = r.Rank
	}
	widths := []float64{30, 55, 55, 46}
	headers := []string{"Tilt [deg]", "Bifacial [kWh]", "Monofacial [kWh]", "Bifacial rank"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		pdf.CellFormat(widths[i], pdfLineHeight, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	for _, r := range res.Results {
		if best[r.TiltDegrees] {
			pdf.SetFont("Arial", "B", 9)
		} else {
			pdf.SetFont("Arial", "", 9)
		}
		cells := []string{
			fmt.Sprintf("%d", r.TiltDegrees),
			fmt.Sprintf("%.2f", r.BifacialAnnualKWh),
			fmt.Sprintf("%.2f", r.MonofacialAnnualKWh),
			fmt.Sprintf("%d", rank[r.TiltDegrees]),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], pdfLineHeight, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build pdf: %w", err)
	}
	return pdf, nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pdfContentWidth, 8, text, "", 1, "L", false, 0, "")
}
