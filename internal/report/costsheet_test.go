package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"acai-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSheet() CostSheet {
	r := domain.Recipe{
		Name: "Creme de Ninho",
		Ingredients: []domain.RecipeIngredient{
			{Name: "Leite Ninho", Category: "Complementos", Unit: domain.UnitGram, Price: 40, Amount: 800, UsedAmount: 200},
			{Name: "Leite condensado <caixa>", Unit: domain.UnitGram, Price: 8, Amount: 395, UsedAmount: 395},
		},
		OperationalPercent: 30,
		ProfitPercent:      20,
		IsReusable:         true,
		YieldAmount:        1.5,
		YieldUnit:          "kg",
		Instructions:       "Bater tudo.",
	}
	channels := []domain.SalesChannel{{ID: 1, Name: "Balcão", IsBase: true}}
	return NewCostSheet("Açaí da Vila", r, channels, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
}

func TestCostSheetHTML(t *testing.T) {
	html, err := sampleSheet().HTML()
	require.NoError(t, err)

	assert.Contains(t, html, "PRÉ-PREPARO")
	assert.Contains(t, html, "1.5 kg")
	assert.Contains(t, html, "R$ 18.00")
	assert.Contains(t, html, "Leite condensado &lt;caixa&gt;")
	assert.Contains(t, html, "Bater tudo.")
	assert.Contains(t, html, "09/03/2026")
	assert.Contains(t, html, "window.print()")
}

func TestCostSheetHTMLWithoutYield(t *testing.T) {
	s := sampleSheet()
	s.Recipe.IsReusable = false
	s.Recipe.YieldAmount = 0
	html, err := s.HTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "PRÉ-PREPARO")
	assert.Contains(t, html, "N/A")
}

func TestCostSheetCSV(t *testing.T) {
	data, err := sampleSheet().CSV()
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, ingredientHeader, rows[0])
	assert.Equal(t, "10.00", rows[1][6])
	assert.Equal(t, []string{"CMV", "", "", "", "", "", "18.00"}, rows[3])
	assert.Equal(t, channelHeader, rows[4])
	assert.Equal(t, "Balcão", rows[5][0])
}

func TestCostSheetXLSX(t *testing.T) {
	data, err := sampleSheet().XLSX()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ingredients", "Channels"}, f.GetSheetList())
	name, err := f.GetCellValue("Ingredients", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Leite Ninho", name)
	ch, err := f.GetCellValue("Channels", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Balcão", ch)
}
