package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/servly/escrow-engine/pkg/models"
)

func pct(id string, min int64, max *int64, value int64) models.MarginPolicy {
	return models.MarginPolicy{
		ID: id, ServiceID: "svc-1", MinAmount: min, MaxAmount: max,
		MarginType: models.MarginPercentage, MarginValue: value, Active: true,
	}
}

func bound(v int64) *int64 { return &v }

func TestComputeFinalPrice(t *testing.T) {
	t.Run("Percentage Margin", func(t *testing.T) {
		policies := []models.MarginPolicy{pct("p1", 0, nil, 10)}

		quote := ComputeFinalPrice(policies, 50000)

		assert.Equal(t, int64(55000), quote.FinalPrice)
		assert.Equal(t, int64(5000), quote.MarginApplied)
		assert.Equal(t, "p1", quote.PolicyID)
	})

	t.Run("Fixed Margin", func(t *testing.T) {
		policies := []models.MarginPolicy{{
			ID: "p1", ServiceID: "svc-1", MarginType: models.MarginFixed, MarginValue: 250, Active: true,
		}}

		quote := ComputeFinalPrice(policies, 50000)

		assert.Equal(t, int64(50250), quote.FinalPrice)
		assert.Equal(t, int64(250), quote.MarginApplied)
	})

	t.Run("No Matching Policy Passes Through", func(t *testing.T) {
		policies := []models.MarginPolicy{pct("p1", 100000, nil, 10)}

		quote := ComputeFinalPrice(policies, 50000)

		assert.Equal(t, int64(50000), quote.FinalPrice)
		assert.Zero(t, quote.MarginApplied)
		assert.Empty(t, quote.PolicyID)
	})

	t.Run("Inactive Policy Ignored", func(t *testing.T) {
		p := pct("p1", 0, nil, 10)
		p.Active = false

		quote := ComputeFinalPrice([]models.MarginPolicy{p}, 50000)

		assert.Equal(t, int64(50000), quote.FinalPrice)
	})

	t.Run("Narrowest Span Wins", func(t *testing.T) {
		policies := []models.MarginPolicy{
			pct("broad", 0, nil, 10),
			pct("narrow", 40000, bound(60000), 5),
		}

		quote := ComputeFinalPrice(policies, 50000)

		assert.Equal(t, "narrow", quote.PolicyID)
		assert.Equal(t, int64(52500), quote.FinalPrice)
	})

	t.Run("Equal Span Ties Break On ID", func(t *testing.T) {
		policies := []models.MarginPolicy{
			pct("b", 40000, bound(60000), 20),
			pct("a", 40000, bound(60000), 5),
		}

		quote := ComputeFinalPrice(policies, 50000)

		assert.Equal(t, "a", quote.PolicyID)
	})

	t.Run("Range Is Inclusive Min Exclusive Max", func(t *testing.T) {
		policies := []models.MarginPolicy{pct("p1", 40000, bound(50000), 10)}

		assert.Equal(t, "p1", ComputeFinalPrice(policies, 40000).PolicyID)
		assert.Empty(t, ComputeFinalPrice(policies, 50000).PolicyID)
	})

	t.Run("Rounds Half Up", func(t *testing.T) {
		policies := []models.MarginPolicy{pct("p1", 0, nil, 3)}

		// 3% of 15 is 0.45, rounds to 0; 3% of 50 is 1.5, rounds to 2.
		assert.Equal(t, int64(15), ComputeFinalPrice(policies, 15).FinalPrice)
		assert.Equal(t, int64(52), ComputeFinalPrice(policies, 50).FinalPrice)
	})
}

func TestPercentShare(t *testing.T) {
	assert.Equal(t, int64(22000), PercentShare(55000, 40))
	assert.Equal(t, int64(5500), PercentShare(55000, 10))
	assert.Equal(t, int64(0), PercentShare(55000, 0))
	assert.Equal(t, int64(55000), PercentShare(55000, 100))
	// Half-up on the minor unit.
	assert.Equal(t, int64(1), PercentShare(1, 50))
}
