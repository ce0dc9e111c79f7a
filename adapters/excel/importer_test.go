package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"psymatch/domain/core"
	"psymatch/internal/testkit"
)

// writeWorkbook builds a minimal calibration workbook in a temp dir.
func writeWorkbook(t *testing.T, scaleRows, itemRows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Scales"))
	_, err := f.NewSheet("Items")
	require.NoError(t, err)

	headers := map[string][]interface{}{
		"Scales": {"id", "name", "domain", "description", "order"},
		"Items":  {"id", "scale", "text", "format", "options", "answer", "a", "b", "c", "loadings", "reversed", "is_distortion", "position", "active"},
	}
	for sheet, header := range headers {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	}
	for i, row := range scaleRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, f.SetSheetRow("Scales", cell, &row))
	}
	for i, row := range itemRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, f.SetSheetRow("Items", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "bank.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportWorkbook(t *testing.T) {
	path := writeWorkbook(t,
		[][]interface{}{
			{"cog-verbal", "Verbal Reasoning", "cognitive", "Word problems", 1},
			{"beh-sociability", "Sociability", "behavioral", "", 2},
			{"int-social", "Social", "interests", "", 3},
			{"int-realistic", "Realistic", "interests", "", 4},
		},
		[][]interface{}{
			{"v1", "cog-verbal", "Which word fits?", "multiple_choice", "A|B|C|D", "B", 1.1, -0.4, 0.2, "", "", "", 1},
			{"s1", "beh-sociability", "I enjoy crowds.", "likert", "", "", "", "", "", "", "true", "", 2},
			{"fc1", "int-social", "Pick the activity you prefer.", "forced_choice", "Host a workshop|Repair a machine", "", "", "", "", "int-social:0|int-realistic:1", "", "", 3},
			{"v2", "cog-verbal", "Retired word problem.", "multiple_choice", "A|B", "A", 0.9, 0.1, 0.2, "", "", "", 4, "false"},
		},
	)

	store := testkit.NewMemoryStore()
	importer := NewImporter(path, store)
	require.NoError(t, importer.Import(context.Background()))

	ctx := context.Background()
	scales, err := store.ListScales(ctx)
	require.NoError(t, err)
	assert.Len(t, scales, 4)

	item, err := store.GetItem(ctx, "v1")
	require.NoError(t, err)
	params, err := item.IRTParams()
	require.NoError(t, err)
	assert.InDelta(t, 1.1, params.A, 1e-9)
	assert.InDelta(t, -0.4, params.B, 1e-9)
	assert.InDelta(t, 0.2, params.C, 1e-9)
	assert.Equal(t, []string{"A", "B", "C", "D"}, []string(item.Options))
	require.NotNil(t, item.CorrectAnswer)
	assert.Equal(t, "B", *item.CorrectAnswer)
	assert.True(t, item.Active, "blank active column defaults to administrable")

	retired, err := store.GetItem(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, retired.Active)

	likert, err := store.GetItem(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, likert.Reversed)
	assert.Nil(t, likert.Discrimination)

	fc, err := store.GetItem(ctx, "fc1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, fc.Loadings["int-social"])
	assert.Equal(t, 1.0, fc.Loadings["int-realistic"])
}

func TestImportRejectsUnknownScale(t *testing.T) {
	path := writeWorkbook(t,
		[][]interface{}{{"cog-verbal", "Verbal Reasoning", "cognitive", "", 1}},
		[][]interface{}{{"x1", "cog-missing", "Orphan item", "likert", "", "", "", "", "", "", "", "", 1}},
	)

	importer := NewImporter(path, testkit.NewMemoryStore())
	err := importer.Import(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestImportRejectsPartialCalibration(t *testing.T) {
	path := writeWorkbook(t,
		[][]interface{}{{"cog-verbal", "Verbal Reasoning", "cognitive", "", 1}},
		[][]interface{}{{"v1", "cog-verbal", "Half calibrated", "multiple_choice", "A|B", "A", 1.0, "", "", "", "", "", 1}},
	)

	importer := NewImporter(path, testkit.NewMemoryStore())
	err := importer.Import(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestImportRejectsUnknownDomain(t *testing.T) {
	path := writeWorkbook(t,
		[][]interface{}{{"scale-x", "Mystery", "astrological", "", 1}},
		[][]interface{}{{"x1", "scale-x", "Item", "likert", "", "", "", "", "", "", "", "", 1}},
	)

	importer := NewImporter(path, testkit.NewMemoryStore())
	err := importer.Import(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
