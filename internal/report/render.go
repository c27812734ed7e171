package report

import (
	"bytes"
	"fmt"
	"strconv"

	"ngo-admin-backend/internal/chart"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 15.0
	footerHeight = 15.0
	lineHeight   = 7.0
	rowHeight    = 6.0
	fontFamily   = "Helvetica"
)

// summaryColumns are the per-event table headings with their widths in mm.
var summaryColumns = []struct {
	title string
	width float64
}{
	{"ID", 10},
	{"Title", 42},
	{"Date", 20},
	{"Status", 20},
	{"Signups", 14},
	{"Approved", 15},
	{"Rejected", 15},
	{"Attended", 17},
	{"Att. Rate", 17},
	{"Part. Rate", 20},
}

var (
	headerFill = chart.RGB{R: 41, G: 128, B: 185}
	zebraFill  = chart.RGB{R: 240, G: 244, B: 248}
)

type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render lays the document out as an A4 PDF and returns its bytes. The PDF is
// built entirely in memory; callers only persist the result on success.
func Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s - %s", doc.OrgName, doc.Title), true)
	pdf.SetCreator("ngo-admin-backend", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerHeight+5)
	pdf.AliasNbPages("")

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	generated := doc.GeneratedAt.Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerHeight)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pageW, _ := pdf.GetPageSize()
		half := (pageW - 2*pageMargin) / 2
		pdf.CellFormat(half, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 10, r.tr("Generated "+generated), "", 0, "R", false, 0, "")
	})

	r.cover(doc)
	r.summary(doc)
	r.demographicsPage("Volunteer Demographics", doc.Demographics)
	for _, ev := range doc.Events {
		r.eventPage(ev)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) cover(doc *Document) {
	pdf := r.pdf
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	pdf.SetY(pageH / 3)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont(fontFamily, "B", 26)
	pdf.MultiCell(0, 12, r.tr(doc.OrgName), "", "C", false)
	pdf.Ln(6)
	pdf.SetFont(fontFamily, "", 18)
	pdf.CellFormat(0, 10, r.tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 14)
	pdf.CellFormat(0, 10, r.tr(doc.PeriodLabel), "", 1, "C", false, 0, "")
}

func (r *renderer) heading(text string) {
	r.pdf.SetFont(fontFamily, "B", 16)
	r.pdf.SetTextColor(40, 40, 40)
	r.pdf.CellFormat(0, 10, r.tr(text), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *renderer) subheading(text string) {
	r.pdf.SetFont(fontFamily, "B", 12)
	r.pdf.SetTextColor(40, 40, 40)
	r.pdf.CellFormat(0, 8, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *renderer) keyValues(rows [][2]string) {
	for _, kv := range rows {
		r.pdf.SetFont(fontFamily, "B", 10)
		r.pdf.CellFormat(70, lineHeight, r.tr(kv[0]), "", 0, "L", false, 0, "")
		r.pdf.SetFont(fontFamily, "", 10)
		r.pdf.CellFormat(0, lineHeight, r.tr(kv[1]), "", 1, "L", false, 0, "")
	}
}

func (r *renderer) summary(doc *Document) {
	r.pdf.AddPage()
	r.heading("Overall Summary")

	s := doc.Summary
	r.keyValues([][2]string{
		{"Total events", strconv.Itoa(s.TotalEvents)},
		{"Total signups", strconv.Itoa(s.TotalSignups)},
		{"Unique approved volunteers", strconv.Itoa(s.UniqueApproved)},
		{"Unique attended volunteers", strconv.Itoa(s.UniqueAttended)},
		{"New applications", strconv.Itoa(s.NewApplications)},
		{"Registered volunteers", strconv.Itoa(s.RegisteredVolunteers)},
	})
	r.pdf.Ln(6)

	r.subheading("Events")
	r.tableHeader()
	for i, ev := range doc.Events {
		_, pageH := r.pdf.GetPageSize()
		if r.pdf.GetY()+rowHeight > pageH-footerHeight-5 {
			r.pdf.AddPage()
			r.tableHeader()
		}
		m := ev.Metrics
		cells := []string{
			strconv.FormatInt(ev.Event.ID, 10),
			ev.Event.Title,
			ev.Event.Date.Format("2006-01-02"),
			string(ev.Event.Status),
			strconv.Itoa(m.Signups),
			strconv.Itoa(m.Approved),
			strconv.Itoa(m.Rejected),
			strconv.Itoa(m.Attendance),
			m.AttendanceRate,
			m.ParticipationRate,
		}
		r.tableRow(cells, i%2 == 1)
	}
}

func (r *renderer) tableHeader() {
	pdf := r.pdf
	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetFillColor(headerFill.R, headerFill.G, headerFill.B)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range summaryColumns {
		pdf.CellFormat(c.width, rowHeight+1, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func (r *renderer) tableRow(cells []string, zebra bool) {
	pdf := r.pdf
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFillColor(zebraFill.R, zebraFill.G, zebraFill.B)
	for i, c := range summaryColumns {
		text := r.fit(cells[i], c.width-2)
		align := "C"
		if i == 1 {
			align = "L"
		}
		pdf.CellFormat(c.width, rowHeight, text, "1", 0, align, zebra, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens UTF-8 text with an ellipsis until it fits in width and returns
// it translated for the core fonts. Truncation works on runes before
// translation so accented characters survive.
func (r *renderer) fit(text string, width float64) string {
	if out := r.tr(text); r.pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := r.tr(string(runes) + "...")
		if r.pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

func (r *renderer) demographicsPage(title string, d Demographics) {
	r.pdf.AddPage()
	r.heading(title)
	r.demographics(d)
}

// demographics draws the gender pie, age bars and location bars stacked
// down the current page.
func (r *renderer) demographics(d Demographics) {
	pdf := r.pdf
	left, _, _, _ := pdf.GetMargins()

	r.ensureSpace(60)
	r.subheading("Gender")
	y := pdf.GetY()
	r.draw(chart.Pie(data(d.Gender), left+25, y+22, 20))
	pdf.SetY(y + 50)

	r.ensureSpace(65)
	r.subheading("Age Groups")
	y = pdf.GetY()
	r.draw(chart.Bars(data(d.Age), left, y+4, 170, 40))
	pdf.SetY(y + 55)

	r.ensureSpace(65)
	r.subheading("Top Locations")
	y = pdf.GetY()
	r.draw(chart.Bars(data(d.Location), left, y+4, 170, 40))
	pdf.SetY(y + 55)
}

func (r *renderer) ensureSpace(h float64) {
	_, pageH := r.pdf.GetPageSize()
	if r.pdf.GetY()+h > pageH-footerHeight-5 {
		r.pdf.AddPage()
	}
}

func (r *renderer) eventPage(ev EventDetail) {
	r.pdf.AddPage()
	e := ev.Event
	r.heading(e.Title)

	when := e.Date.Format("Monday, 2 January 2006")
	if e.StartTime != "" {
		when += " " + e.StartTime
		if e.EndTime != "" {
			when += " - " + e.EndTime
		}
	}
	r.keyValues([][2]string{
		{"Event ID", strconv.FormatInt(e.ID, 10)},
		{"Date", when},
		{"Location", e.Location},
		{"Status", string(e.Status)},
	})
	r.pdf.Ln(4)

	m := ev.Metrics
	r.subheading("Metrics")
	r.keyValues([][2]string{
		{"Signups", strconv.Itoa(m.Signups)},
		{"Approved", strconv.Itoa(m.Approved)},
		{"Pending", strconv.Itoa(m.Pending)},
		{"Rejected", strconv.Itoa(m.Rejected)},
		{"Attendance", strconv.Itoa(m.Attendance)},
		{"Attendance rate", m.AttendanceRate},
		{"Participation rate", m.ParticipationRate},
		{"Certificates issued", strconv.Itoa(m.Certificates)},
	})
	r.pdf.Ln(4)
	r.demographics(ev.Demographics)
}

func data(buckets []Bucket) []chart.Datum {
	out := make([]chart.Datum, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, chart.Datum{Label: b.Label, Value: float64(b.Count)})
	}
	return out
}

// draw replays chart commands onto the current page.
func (r *renderer) draw(cmds []chart.Command) {
	pdf := r.pdf
	for _, c := range cmds {
		switch c.Kind {
		case chart.KindPolygon:
			pts := make([]fpdf.PointType, 0, len(c.Points))
			for _, p := range c.Points {
				pts = append(pts, fpdf.PointType{X: p.X, Y: p.Y})
			}
			pdf.SetFillColor(c.Fill.R, c.Fill.G, c.Fill.B)
			pdf.SetDrawColor(255, 255, 255)
			pdf.Polygon(pts, "FD")
		case chart.KindRect:
			if c.H <= 0 {
				continue
			}
			pdf.SetFillColor(c.Fill.R, c.Fill.G, c.Fill.B)
			pdf.Rect(c.X, c.Y, c.W, c.H, "F")
		case chart.KindLine:
			if len(c.Points) < 2 {
				continue
			}
			pdf.SetDrawColor(c.Fill.R, c.Fill.G, c.Fill.B)
			pdf.Line(c.Points[0].X, c.Points[0].Y, c.Points[1].X, c.Points[1].Y)
		case chart.KindText:
			pdf.SetFont(fontFamily, "", c.Size)
			pdf.SetTextColor(c.Fill.R, c.Fill.G, c.Fill.B)
			pdf.Text(c.X, c.Y, r.tr(c.Text))
		}
	}
	pdf.SetDrawColor(0, 0, 0)
}
