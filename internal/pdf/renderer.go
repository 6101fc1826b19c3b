package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/mosab320010/-betc/internal/models"
)

const (
	arabicFamily   = "Cairo"
	fallbackFamily = "Helvetica"

	bodyLineHeight = 6.0
	listIndent     = 4.0
	columnGap      = 4.0
)

// Exporter renders evaluation results into downloadable PDF reports.
type Exporter struct {
	fonts  *FontProvisioner
	logger zerolog.Logger
}

// NewExporter builds an exporter using the given font provisioner.
func NewExporter(fonts *FontProvisioner, logger zerolog.Logger) *Exporter {
	return &Exporter{
		fonts:  fonts,
		logger: logger.With().Str("component", "pdf_exporter").Logger(),
	}
}

// Filename derives the deterministic download name for a result.
func Filename(result models.EvaluationResult) string {
	return fmt.Sprintf("BTEC_Report_%s_%d.pdf", strings.ReplaceAll(result.StudentName, " ", "_"), result.TaskID)
}

// Export writes the rendered report for the result to w. The Arabic font is
// provisioned on first use; when provisioning fails the report is produced
// with the fallback face instead of failing the export.
func (e *Exporter) Export(ctx context.Context, result models.EvaluationResult, w io.Writer) error {
	e.fonts.EnsureFont(ctx)

	doc := fpdf.New("P", "mm", "A4", "")
	family := fallbackFamily
	if font := e.fonts.Font(); font != nil {
		// The single Cairo face backs every style the document asks for.
		doc.AddUTF8FontFromBytes(arabicFamily, "", font)
		doc.AddUTF8FontFromBytes(arabicFamily, "B", font)
		doc.AddUTF8FontFromBytes(arabicFamily, "I", font)
		family = arabicFamily
	} else {
		e.logger.Warn().Msg("exporting report with fallback font, arabic text may render incorrectly")
	}

	doc.AddPage()

	r := renderer{doc: doc, family: family}
	for _, node := range BuildDocument(result) {
		r.render(node)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	return nil
}

type renderer struct {
	doc    *fpdf.Fpdf
	family string
}

func (r *renderer) render(node Node) {
	switch node.Kind {
	case KindText:
		r.text(node.Text, node.Style, node.Dir, node.Bold, node.Italic)
	case KindList:
		for _, item := range node.Items {
			r.listItem(item)
		}
	case KindColumns:
		r.columns(node.Columns)
	}

	if node.SpacingAfter > 0 {
		r.doc.Ln(node.SpacingAfter)
	}
}

func (r *renderer) applyStyle(style Style, boldFace, italicFace bool) float64 {
	size := 11.0
	face := ""
	r.doc.SetTextColor(0, 0, 0)

	switch style {
	case StyleHeader:
		size = 18
		face = "B"
	case StyleSubheader:
		size = 14
		face = "B"
		r.doc.Ln(2)
	case StyleFooter:
		size = 8
		face = "I"
		r.doc.SetTextColor(128, 128, 128)
	}

	if boldFace && !strings.Contains(face, "B") {
		face += "B"
	}
	if italicFace && !strings.Contains(face, "I") {
		face += "I"
	}

	r.doc.SetFont(r.family, face, size)
	return bodyLineHeight * size / 11
}

func (r *renderer) text(value string, style Style, dir Direction, boldFace, italicFace bool) {
	height := r.applyStyle(style, boldFace, italicFace)
	r.setDirection(dir)
	r.doc.MultiCell(0, height, value, "", r.align(dir), false)
	r.doc.LTR()
}

func (r *renderer) listItem(item Item) {
	height := r.applyStyle(StyleBody, false, false)
	r.setDirection(item.Dir)

	width, _ := r.doc.GetPageSize()
	left, _, right, _ := r.doc.GetMargins()
	usable := width - left - right

	r.doc.SetX(left + listIndent)
	r.doc.MultiCell(usable-listIndent, height, "• "+item.Text, "", r.align(item.Dir), false)
	r.doc.LTR()
}

// columns lays the item groups out side by side, left to right, and resumes
// the flow below the tallest column.
func (r *renderer) columns(groups [][]Item) {
	height := r.applyStyle(StyleBody, false, false)

	width, _ := r.doc.GetPageSize()
	left, _, right, _ := r.doc.GetMargins()
	usable := width - left - right
	columnWidth := (usable - columnGap*float64(len(groups)-1)) / float64(len(groups))

	top := r.doc.GetY()
	bottom := top
	for i, group := range groups {
		x := left + float64(i)*(columnWidth+columnGap)
		r.doc.SetXY(x, top)
		for _, item := range group {
			r.setDirection(item.Dir)
			r.doc.SetX(x)
			r.doc.MultiCell(columnWidth, height, "• "+item.Text, "", r.align(item.Dir), false)
			r.doc.LTR()
		}
		if y := r.doc.GetY(); y > bottom {
			bottom = y
		}
	}

	r.doc.SetXY(left, bottom)
}

func (r *renderer) setDirection(dir Direction) {
	if dir == LTR {
		r.doc.LTR()
		return
	}
	r.doc.RTL()
}

func (r *renderer) align(dir Direction) string {
	if dir == LTR {
		return "L"
	}
	return "R"
}
