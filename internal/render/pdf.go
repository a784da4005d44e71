// Package render produces the downloadable portfolio artifacts.
package render

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"career-counselling/internal/assessment"
	"career-counselling/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	PDFFilename  = "Career_Research_Assessment.pdf"
	XLSXFilename = "Career_Research_Assessment.xlsx"
)

const (
	maxPDFPapers = 6
	lineHeight   = 8.0
	marginLeft   = 20.0
	bulletIndent = 25.0
)

type pdfOptions struct {
	compress bool
	now      time.Time
}

// PortfolioPDF renders the user's portfolio. resp may be nil when no test
// has been taken.
func PortfolioPDF(user *models.User, resp *models.TestResponse) ([]byte, error) {
	return portfolioPDF(user, resp, pdfOptions{compress: true, now: time.Now()})
}

func portfolioPDF(user *models.User, resp *models.TestResponse, opts pdfOptions) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(opts.compress)
	pdf.SetCreationDate(opts.now)
	pdf.SetTitle("Career Counselling Portfolio", true)
	pdf.SetMargins(marginLeft, 20, marginLeft)
	pdf.SetAutoPageBreak(true, 25)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := opts.now.Format("2006-01-02")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(85, 6, "Generated on: "+generated, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Career Counselling Web App", "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	heading := func(size float64, text string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", size)
		pdf.CellFormat(0, lineHeight+2, tr(text), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
	}
	line := func(text string) {
		pdf.MultiCell(0, lineHeight, tr(text), "", "L", false)
	}
	bullet := func(text string) {
		pdf.SetX(bulletIndent)
		pdf.MultiCell(0, lineHeight, tr("• "+text), "", "L", false)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 12, "Career Counselling Portfolio", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	heading(16, "Personal Information")
	line("Name: " + user.Name)
	line("Email: " + user.Email)
	line("Phone: " + user.Phone)
	line("Status: " + user.ClassStatus)

	if p := user.Profile; p != nil {
		for _, f := range profileFields(p, "Bachelor's Stream") {
			if f.value != "" {
				line(f.label + ": " + f.value)
			}
		}

		if len(p.ResearchPapers) > 0 {
			heading(14, "Research Papers")
			papers := p.ResearchPapers
			if len(papers) > maxPDFPapers {
				papers = papers[:maxPDFPapers]
			}
			for _, paper := range papers {
				bullet(paperLine(paper))
			}
		}
	}

	s := suggestionOf(resp)
	domain := s.Domain
	if domain == "" {
		domain = "N/A"
	}

	heading(16, "Career Recommendation")
	line("Recommended Domain: " + domain)
	line("Suggested Roles:")
	for _, role := range s.Roles {
		bullet(role)
	}
	line("Recommended Courses:")
	for _, course := range s.Courses {
		bullet(course)
	}

	pdf.Ln(4)
	line("Assessment Summary:")
	line(s.Description)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type field struct {
	label string
	value string
}

// profileFields lists the optional profile rows shared by both artifacts.
// The PDF and the workbook label the bachelor stream differently.
func profileFields(p *models.Profile, bachelorLabel string) []field {
	exp := ""
	if p.ExperienceYears != nil {
		exp = strconv.FormatFloat(*p.ExperienceYears, 'f', -1, 64)
	}
	return []field{
		{"Student Type", p.StudentType.String()},
		{"Stream", p.Stream.String()},
		{"Academic %", p.AcademicPercentile.String()},
		{"IELTS/SAT", p.IELTSSAT.String()},
		{bachelorLabel, p.BachelorStream.String()},
		{"Career Goal", p.CareerGoal.String()},
		{"GRE/GMAT", p.GREGMAT.String()},
		{"Experience (yrs)", exp},
	}
}

func paperLine(p models.ResearchPaper) string {
	title := p.Title
	if title == "" {
		title = "Untitled"
	}
	if p.Year != "" {
		return fmt.Sprintf("%s (%s)", title, p.Year)
	}
	return title
}

func suggestionOf(resp *models.TestResponse) assessment.Recommendation {
	if resp == nil {
		return assessment.Recommendation{}
	}
	return resp.CareerSuggestion
}
