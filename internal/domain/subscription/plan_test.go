package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan_Validation(t *testing.T) {
	prices := []PlanPrice{{Currency: "UAH", AmountMinor: 29900}}

	_, err := NewPlan("", 30, 1, nil, prices)
	assert.Error(t, err)

	_, err = NewPlan("monthly", 0, 1, nil, prices)
	assert.Error(t, err)

	_, err = NewPlan("monthly", 30, 1, nil, []PlanPrice{
		{Currency: "UAH", AmountMinor: 29900},
		{Currency: "UAH", AmountMinor: 19900},
	})
	assert.Error(t, err, "one price per currency")

	_, err = NewPlan("monthly", 30, 1, nil, []PlanPrice{{Currency: "UAH", AmountMinor: 0}})
	assert.Error(t, err)

	plan, err := NewPlan("monthly", 30, 1, nil, prices)
	require.NoError(t, err)
	assert.True(t, plan.IsActive())
	assert.Equal(t, 30, plan.DurationInDays())
}

func TestPriceFor(t *testing.T) {
	plan := testPlan(t, 100, 30)

	price, err := plan.PriceFor("UAH")
	require.NoError(t, err)
	assert.Equal(t, int64(29900), price.AmountMinor)

	_, err = plan.PriceFor("EUR")
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestTranslationFor(t *testing.T) {
	plan := testPlan(t, 100, 30)

	assert.Equal(t, "Monthly", plan.TranslationFor("en").Name)
	assert.Equal(t, "Місячний", plan.TranslationFor("uk").Name)

	// regional variants resolve to the base language
	assert.Equal(t, "Monthly", plan.TranslationFor("en-GB").Name)

	// unknown language falls back to the first translation
	assert.Equal(t, "Місячний", plan.TranslationFor("ja").Name)
	assert.Equal(t, "Місячний", plan.TranslationFor("not-a-tag!!").Name)
}

func TestDeactivate(t *testing.T) {
	plan := testPlan(t, 100, 30)
	plan.Deactivate()
	assert.False(t, plan.IsActive())
	plan.Activate()
	assert.True(t, plan.IsActive())
}
