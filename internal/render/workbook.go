package render

import (
	"fmt"
	"sort"

	"career-counselling/internal/assessment"
	"career-counselling/internal/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	SheetPersonal       = "Personal Info"
	SheetResponses      = "Test Responses"
	SheetRecommendation = "Career Recommendation"
	SheetAggregates     = "Aggregates"
	SheetPapers         = "Research Papers"
)

// AssessmentWorkbook exports the user, their answers and the scored result
// as an XLSX workbook. Question text is resolved against catalog; resp may
// be nil.
func AssessmentWorkbook(user *models.User, resp *models.TestResponse, catalog *assessment.Catalog) ([]byte, error) {
	if catalog == nil {
		catalog = assessment.DefaultCatalog()
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	w := &sheetWriter{f: f, bold: bold}
	if err := f.SetSheetName("Sheet1", SheetPersonal); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	w.write(SheetPersonal, personalRows(user), true)
	w.write(SheetResponses, responseRows(resp, catalog), true)

	s := suggestionOf(resp)
	w.write(SheetRecommendation, recommendationRows(s), true)

	if s.Aggregates != nil {
		w.write(SheetAggregates, aggregateRows(s.Aggregates), true)
	}
	if user.Profile != nil && len(user.Profile.ResearchPapers) > 0 {
		w.write(SheetPapers, paperRows(user.Profile.ResearchPapers), true)
	}
	if w.err != nil {
		return nil, w.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so callers can write all sheets and
// check once.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) write(sheet string, rows [][]interface{}, boldFirst bool) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			w.err = fmt.Errorf("create sheet %s: %w", sheet, err)
			return
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			w.err = fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
			return
		}
	}
	if boldFirst && len(rows) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := w.f.SetCellStyle(sheet, "A1", end, w.bold); err != nil {
			w.err = fmt.Errorf("style %s: %w", sheet, err)
		}
	}
}

func personalRows(u *models.User) [][]interface{} {
	rows := [][]interface{}{
		{"Personal Information", ""},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Status", u.ClassStatus},
	}
	p := u.Profile
	if p == nil {
		p = &models.Profile{}
	}
	for _, f := range profileFields(p, "Bachelor Stream") {
		rows = append(rows, []interface{}{f.label, f.value})
	}

	registered := ""
	if !u.CreatedAt.IsZero() {
		registered = u.CreatedAt.Format("2006-01-02")
	}
	return append(rows, []interface{}{"Registration Date", registered})
}

func responseRows(resp *models.TestResponse, catalog *assessment.Catalog) [][]interface{} {
	rows := [][]interface{}{{"Question ID", "Question", "Answer"}}
	if resp == nil {
		return rows
	}
	for _, a := range resp.Answers {
		text := fmt.Sprintf("Question %d", a.QuestionID)
		if q, ok := catalog.Lookup(a.QuestionID); ok {
			text = q.Text
		}
		rows = append(rows, []interface{}{a.QuestionID, text, a.Answer})
	}
	return rows
}

func recommendationRows(s assessment.Recommendation) [][]interface{} {
	rows := [][]interface{}{
		{"Career Recommendation", ""},
		{"Domain", s.Domain},
		{"Description", s.Description},
		{"Suggested Roles", ""},
	}
	for _, r := range s.Roles {
		rows = append(rows, []interface{}{"", r})
	}
	rows = append(rows, []interface{}{"Recommended Courses", ""})
	for _, c := range s.Courses {
		rows = append(rows, []interface{}{"", c})
	}
	return rows
}

// aggregateRows orders dimensions by score, highest first, then by name.
func aggregateRows(aggregates map[string]int) [][]interface{} {
	keys := make([]string, 0, len(aggregates))
	for k := range aggregates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if aggregates[keys[i]] != aggregates[keys[j]] {
			return aggregates[keys[i]] > aggregates[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := [][]interface{}{{"Dimension", "Score"}}
	for _, k := range keys {
		rows = append(rows, []interface{}{k, aggregates[k]})
	}
	return rows
}

func paperRows(papers []models.ResearchPaper) [][]interface{} {
	rows := [][]interface{}{{"Title", "Venue", "Year", "Link"}}
	for _, p := range papers {
		rows = append(rows, []interface{}{p.Title, p.Venue, p.Year.String(), p.Link})
	}
	return rows
}
