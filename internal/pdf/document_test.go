package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosab320010/-betc/internal/models"
)

func testResult() models.EvaluationResult {
	return models.EvaluationResult{
		TaskID:      7,
		StudentName: "Sara Al",
		Score:       46,
		IsPass:      false,
		Feedback:    "نوصي بإعادة الصياغة",
		PlagiarismCheck: models.PlagiarismCheck{
			SimilarityScore: 12,
			Sources:         []string{"https://example.com/source-1"},
			IsPlagiarized:   false,
		},
		ChainOfThought: models.ChainOfThought{
			TaskUnderstanding: []string{"فهم المهمة"},
			CriteriaAnalysis: []models.CriterionAnalysis{
				{CriterionID: "P1", Analysis: "تحليل المعيار"},
			},
			StrengthsWeaknesses: models.StrengthsWeaknesses{
				Strengths:  []string{"قوة"},
				Weaknesses: []string{"ضعف"},
			},
			Scoring: []models.CriterionScore{
				{CriterionID: "P1", Score: 14},
			},
		},
		PredictiveAnalysis: models.PredictiveAnalysis{
			Confidence:      0.9,
			Recommendations: []string{"توصية"},
			LearningPath:    []string{"خطوة"},
		},
		JordanianContextNotes: []string{"ملاحظة"},
		Hash:                  "cafebabe",
		Timestamp:             time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Version:               "AAQ-2025",
	}
}

func TestFilenameReplacesSpaces(t *testing.T) {
	require.Equal(t, "BTEC_Report_Sara_Al_7.pdf", Filename(testResult()))
}

func TestBuildDocumentStartsWithTitleEndsWithHash(t *testing.T) {
	nodes := BuildDocument(testResult())

	require.Equal(t, KindText, nodes[0].Kind)
	require.Equal(t, StyleHeader, nodes[0].Style)
	require.Equal(t, "تقرير تقييم BTEC (AAQ 2025)", nodes[0].Text)

	footer := nodes[len(nodes)-1]
	require.Equal(t, KindText, footer.Kind)
	require.Equal(t, StyleFooter, footer.Style)
	require.Contains(t, footer.Text, "cafebabe")
}

func TestBuildDocumentSectionOrder(t *testing.T) {
	nodes := BuildDocument(testResult())

	var subheaders []string
	for _, node := range nodes {
		if node.Kind == KindText && node.Style == StyleSubheader {
			subheaders = append(subheaders, node.Text)
		}
	}

	require.Equal(t, []string{
		"فحص الانتحال:",
		"سلسلة التفكير (منظّم):",
		"تحليل المعايير:",
		"نقاط القوة والضعف:",
		"التحليل التنبؤي:",
		"مسار التعلم المقترح:",
		"ملاحظات سياق الأردن:",
	}, subheaders)
}

func TestBuildDocumentHeaderLines(t *testing.T) {
	nodes := BuildDocument(testResult())

	require.Equal(t, "الطالب: Sara Al", nodes[1].Text)
	require.Equal(t, "المهمة: 7", nodes[2].Text)
	require.Contains(t, nodes[3].Text, "14/03/2025")
	require.Equal(t, "الإصدار: AAQ-2025", nodes[4].Text)
	require.Contains(t, nodes[5].Text, "46/100")
	require.Contains(t, nodes[5].Text, "راسب")
	require.True(t, nodes[5].Bold)
}

func TestBuildDocumentSourceListIsLTR(t *testing.T) {
	nodes := BuildDocument(testResult())

	var sourceList *Node
	for i, node := range nodes {
		if node.Kind == KindList && len(node.Items) > 0 && strings.HasPrefix(node.Items[0].Text, "https://") {
			sourceList = &nodes[i]
			break
		}
	}

	require.NotNil(t, sourceList)
	for _, item := range sourceList.Items {
		require.Equal(t, LTR, item.Dir)
	}
}

func TestBuildDocumentColumnsHoldWeaknessesThenStrengths(t *testing.T) {
	nodes := BuildDocument(testResult())

	var columns *Node
	for i, node := range nodes {
		if node.Kind == KindColumns {
			columns = &nodes[i]
			break
		}
	}

	require.NotNil(t, columns)
	require.Len(t, columns.Columns, 2)
	require.Contains(t, columns.Columns[0][0].Text, "الضعف")
	require.Contains(t, columns.Columns[1][0].Text, "القوة")
}

func TestBuildDocumentOmitsEmptyContextNotes(t *testing.T) {
	result := testResult()
	result.JordanianContextNotes = nil

	for _, node := range BuildDocument(result) {
		require.NotEqual(t, "ملاحظات سياق الأردن:", node.Text)
	}
}

func TestBuildDocumentPassVerdict(t *testing.T) {
	result := testResult()
	result.Score = 82
	result.IsPass = true

	nodes := BuildDocument(result)
	require.Contains(t, nodes[5].Text, "ناجح")
}
