// Package pdf turns an evaluation result into a printable report. The result
// is first mapped onto a typed document-description tree, then rendered; the
// tree keeps the section order and layout directives independent of the
// rendering engine.
package pdf

import (
	"fmt"

	"github.com/mosab320010/-betc/internal/models"
)

// NodeKind discriminates the document node union.
type NodeKind string

const (
	// KindText is a single text paragraph.
	KindText NodeKind = "text"
	// KindList is a bulleted list of text items.
	KindList NodeKind = "list"
	// KindColumns lays its groups out side by side.
	KindColumns NodeKind = "columns"
)

// Style names the text style a node is rendered with.
type Style string

const (
	// StyleHeader is the document title style.
	StyleHeader Style = "header"
	// StyleSubheader is the section heading style.
	StyleSubheader Style = "subheader"
	// StyleBody is the default paragraph style.
	StyleBody Style = "body"
	// StyleFooter is the small print used for the integrity footer.
	StyleFooter Style = "footer"
)

// Direction is the text flow of a node. The report is right-to-left
// throughout; source URLs are forced left-to-right.
type Direction string

const (
	// RTL renders right-to-left.
	RTL Direction = "rtl"
	// LTR renders left-to-right.
	LTR Direction = "ltr"
)

// Item is one entry of a list node.
type Item struct {
	Text string
	Dir  Direction
}

// Node is one element of the document-description tree.
type Node struct {
	Kind         NodeKind
	Text         string
	Style        Style
	Dir          Direction
	Bold         bool
	Italic       bool
	Items        []Item
	Columns      [][]Item
	SpacingAfter float64
}

func text(value string, style Style, opts ...func(*Node)) Node {
	node := Node{Kind: KindText, Text: value, Style: style, Dir: RTL}
	for _, opt := range opts {
		opt(&node)
	}
	return node
}

func bold(n *Node) { n.Bold = true }

func italic(n *Node) { n.Italic = true }

func spacing(after float64) func(*Node) {
	return func(n *Node) { n.SpacingAfter = after }
}

func list(items []Item, after float64) Node {
	return Node{Kind: KindList, Items: items, Style: StyleBody, Dir: RTL, SpacingAfter: after}
}

func rtlItems(values []string) []Item {
	items := make([]Item, 0, len(values))
	for _, value := range values {
		items = append(items, Item{Text: value, Dir: RTL})
	}
	return items
}

func ltrItems(values []string) []Item {
	items := make([]Item, 0, len(values))
	for _, value := range values {
		items = append(items, Item{Text: value, Dir: LTR})
	}
	return items
}

// BuildDocument maps the result onto the report document tree. Sections
// mirror the on-screen report in the same fixed order and close with the
// integrity footer.
func BuildDocument(result models.EvaluationResult) []Node {
	verdict := "راسب"
	if result.IsPass {
		verdict = "ناجح"
	}

	plagiarismVerdict := "آمن"
	if result.PlagiarismCheck.IsPlagiarized {
		plagiarismVerdict = "يحتاج مراجعة"
	}

	nodes := []Node{
		text("تقرير تقييم BTEC (AAQ 2025)", StyleHeader, spacing(4)),
		text(fmt.Sprintf("الطالب: %s", result.StudentName), StyleBody),
		text(fmt.Sprintf("المهمة: %d", result.TaskID), StyleBody),
		text(fmt.Sprintf("التاريخ: %s", result.Timestamp.Format("02/01/2006, 15:04:05")), StyleBody),
		text(fmt.Sprintf("الإصدار: %s", result.Version), StyleBody, spacing(4)),
		text(fmt.Sprintf("النتيجة: %d/100 — %s", result.Score, verdict), StyleBody, bold, spacing(2)),
		text(fmt.Sprintf("التغذية الراجعة: %s", result.Feedback), StyleBody, spacing(6)),

		text("فحص الانتحال:", StyleSubheader),
		text(fmt.Sprintf("درجة التشابه: %d%% — %s", result.PlagiarismCheck.SimilarityScore, plagiarismVerdict), StyleBody),
		text("المصادر:", StyleBody, italic),
		list(ltrItems(result.PlagiarismCheck.Sources), 6),

		text("سلسلة التفكير (منظّم):", StyleSubheader),
		list(rtlItems(result.ChainOfThought.TaskUnderstanding), 4),

		text("تحليل المعايير:", StyleSubheader),
		list(analysisItems(result.ChainOfThought.CriteriaAnalysis), 4),

		text("نقاط القوة والضعف:", StyleSubheader),
		strengthsWeaknessesColumns(result.ChainOfThought.StrengthsWeaknesses),

		text("التحليل التنبؤي:", StyleSubheader),
		text(fmt.Sprintf("مستوى الثقة: %.0f%%", result.PredictiveAnalysis.Confidence*100), StyleBody),
		text("التوصيات:", StyleBody, italic),
		list(rtlItems(result.PredictiveAnalysis.Recommendations), 4),

		text("مسار التعلم المقترح:", StyleSubheader),
		list(rtlItems(result.PredictiveAnalysis.LearningPath), 6),
	}

	if len(result.JordanianContextNotes) > 0 {
		nodes = append(nodes,
			text("ملاحظات سياق الأردن:", StyleSubheader),
			list(rtlItems(result.JordanianContextNotes), 8),
		)
	}

	nodes = append(nodes, text(fmt.Sprintf("ختم التجزئة: %s", result.Hash), StyleFooter))

	return nodes
}

func analysisItems(entries []models.CriterionAnalysis) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{Text: fmt.Sprintf("%s: %s", entry.CriterionID, entry.Analysis), Dir: RTL})
	}
	return items
}

func strengthsWeaknessesColumns(sw models.StrengthsWeaknesses) Node {
	weaknesses := make([]Item, 0, len(sw.Weaknesses))
	for _, w := range sw.Weaknesses {
		weaknesses = append(weaknesses, Item{Text: fmt.Sprintf("الضعف: %s", w), Dir: RTL})
	}

	strengths := make([]Item, 0, len(sw.Strengths))
	for _, s := range sw.Strengths {
		strengths = append(strengths, Item{Text: fmt.Sprintf("القوة: %s", s), Dir: RTL})
	}

	return Node{
		Kind:         KindColumns,
		Style:        StyleBody,
		Dir:          RTL,
		Columns:      [][]Item{weaknesses, strengths},
		SpacingAfter: 6,
	}
}
