package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAssets(t *testing.T) {
	valid := []Asset{
		{Symbol: "A", Allocation: 60},
		{Symbol: "B", Allocation: 40},
	}
	assert.NoError(t, ValidateAssets(valid))

	// within tolerance of 100
	nearlyValid := []Asset{
		{Symbol: "A", Allocation: 33.33},
		{Symbol: "B", Allocation: 33.33},
		{Symbol: "C", Allocation: 33.34},
	}
	assert.NoError(t, ValidateAssets(nearlyValid))
}

func TestValidateAssetsRejects(t *testing.T) {
	cases := []struct {
		name   string
		assets []Asset
	}{
		{"empty", nil},
		{"sums to 90", []Asset{{Symbol: "A", Allocation: 60}, {Symbol: "B", Allocation: 30}}},
		{"sums above 100", []Asset{{Symbol: "A", Allocation: 60}, {Symbol: "B", Allocation: 50}}},
		{"negative allocation", []Asset{{Symbol: "A", Allocation: -10}, {Symbol: "B", Allocation: 110}}},
		{"over 100 single", []Asset{{Symbol: "A", Allocation: 101}}},
		{"duplicate symbol", []Asset{{Symbol: "A", Allocation: 50}, {Symbol: "A", Allocation: 50}}},
		{"missing symbol", []Asset{{Symbol: "", Allocation: 100}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateAssets(tc.assets), ErrAllocation)
		})
	}
}

func TestInvestmentDefaulting(t *testing.T) {
	p := &Portfolio{Name: "X"}
	assert.Equal(t, float64(DefaultInvestmentAmount), p.Investment())

	zero := 0.0
	p.InvestmentAmount = &zero
	assert.Equal(t, float64(DefaultInvestmentAmount), p.Investment())

	amount := 25000.0
	p.InvestmentAmount = &amount
	assert.Equal(t, 25000.0, p.Investment())
}

func TestDollarAmount(t *testing.T) {
	a := Asset{Symbol: "A", Allocation: 40}

	d, err := a.DollarAmount(10000)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, d)

	_, err = a.DollarAmount(-1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPortfolioValidate(t *testing.T) {
	p := &Portfolio{
		Name: "Retirement",
		Assets: []Asset{
			{Symbol: "A", Allocation: 60},
			{Symbol: "B", Allocation: 40},
		},
	}
	assert.NoError(t, p.Validate())

	p.Name = ""
	assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
}

func TestEventWindowValidate(t *testing.T) {
	ok := EventWindow{
		Start:        NewDate(2020, 2, 19),
		End:          NewDate(2020, 8, 12),
		DecisionDate: NewDate(2020, 5, 16),
	}
	assert.NoError(t, ok.Validate())

	inverted := EventWindow{
		Start:        NewDate(2020, 8, 12),
		End:          NewDate(2020, 2, 19),
		DecisionDate: NewDate(2020, 5, 16),
	}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidWindow)

	sameDay := EventWindow{
		Start:        NewDate(2020, 2, 19),
		End:          NewDate(2020, 2, 19),
		DecisionDate: NewDate(2020, 2, 19),
	}
	assert.ErrorIs(t, sameDay.Validate(), ErrInvalidWindow)

	outsideDecision := EventWindow{
		Start:        NewDate(2020, 2, 19),
		End:          NewDate(2020, 8, 12),
		DecisionDate: NewDate(2020, 9, 1),
	}
	assert.ErrorIs(t, outsideDecision.Validate(), ErrInvalidWindow)
}
