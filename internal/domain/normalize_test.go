package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneSameKey(t *testing.T) {
	assert.Equal(t, NormalizePhone("11987654321"), NormalizePhone("(11) 98765-4321"))
	assert.Equal(t, "11987654321", NormalizePhone("(11) 98765-4321"))
}

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"11":               "11",
		"1198":             "(11) 98",
		"11987654321":      "(11) 98765-4321",
		"1133334444":       "(11) 3333-4444",
		"1198765432199999": "(11) 98765-4321",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPhone(in), in)
	}
}

func TestFormatCEP(t *testing.T) {
	assert.Equal(t, "03820-000", FormatCEP("03820000"))
	assert.Equal(t, "03820-000", FormatCEP("03820-000"))
	assert.Equal(t, "0382", FormatCEP("0382"))
}

func TestSupplyUnitCost(t *testing.T) {
	assert.InDelta(t, 0.05, Supply{Price: 50, Amount: 1000}.UnitCost(), 1e-9)
	assert.Zero(t, Supply{Price: 50}.UnitCost())
}

func TestSnapshotOfKeepsCostFields(t *testing.T) {
	s := Supply{ID: 7, Name: "Leite Ninho", Category: "Complementos", Unit: UnitGram, Price: 40, Amount: 800}
	ing := SnapshotOf(s, 30)

	s.Price = 80
	assert.InDelta(t, 1.5, ing.Cost(), 1e-9)
	assert.Equal(t, int64(7), ing.SupplyID)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank("  \t"))
	assert.False(t, IsBlank(" a "))
}

func TestRecipeIngredientJSONIsCamelCase(t *testing.T) {
	raw, err := json.Marshal(RecipeIngredient{SupplyID: 7, UsedAmount: 30})
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"supplyId":7`)
	assert.Contains(t, string(raw), `"usedAmount":30`)

	var ing RecipeIngredient
	assert.NoError(t, json.Unmarshal([]byte(`{"supplyId":9}`), &ing))
	assert.Equal(t, int64(9), ing.SupplyID)
}
