package pricing

import (
	"testing"

	"rentgear-storefront/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLinePrice(t *testing.T) {
	eq := domain.Equipment{
		ID:               "e1",
		Name:             "Canon EOS R5",
		RentPerHourCents: 12500, // ₹125/hour
		RentPerDayCents:  85000, // ₹850/day
	}

	t.Run("Hourly rental", func(t *testing.T) {
		price := LinePrice(eq, domain.RentalTypeHour, 3)
		assert.Equal(t, int64(37500), price) // 125 * 3 hours
	})

	t.Run("Daily rental", func(t *testing.T) {
		price := LinePrice(eq, domain.RentalTypeDay, 3)
		assert.Equal(t, int64(255000), price) // 850 * 3 days
	})
}

func TestLineTotal_BothPathsAgree(t *testing.T) {
	// hourlyRate=125, quantity=1, duration=3, rentalType=Hour ⇒ price=375
	// via either the precomputed-price path or the rate×qty×duration path.
	withPrice := domain.CartItem{
		RentalType:      domain.RentalTypeHour,
		Quantity:        1,
		RentalDuration:  3,
		HourlyRateCents: 12500,
		PriceCents:      37500,
	}
	withoutPrice := withPrice
	withoutPrice.PriceCents = 0

	assert.Equal(t, int64(37500), LineTotal(withPrice))
	assert.Equal(t, int64(37500), LineTotal(withoutPrice))
	assert.Equal(t, LineTotal(withPrice), LineTotal(withoutPrice))
}

func TestLineTotal_FallbackDefaults(t *testing.T) {
	t.Run("Missing duration treated as 1", func(t *testing.T) {
		item := domain.CartItem{
			RentalType:     domain.RentalTypeDay,
			Quantity:       2,
			DailyRateCents: 85000,
		}
		assert.Equal(t, int64(170000), LineTotal(item))
	})

	t.Run("Quantity multiplies precomputed price", func(t *testing.T) {
		item := domain.CartItem{
			RentalType: domain.RentalTypeDay,
			Quantity:   3,
			PriceCents: 85000,
		}
		assert.Equal(t, int64(255000), LineTotal(item))
	})
}

func TestCartTotal(t *testing.T) {
	items := []domain.CartItem{
		{RentalType: domain.RentalTypeHour, Quantity: 1, RentalDuration: 3, HourlyRateCents: 12500},
		{RentalType: domain.RentalTypeDay, Quantity: 2, RentalDuration: 1, DailyRateCents: 85000, PriceCents: 85000},
	}
	assert.Equal(t, int64(37500+170000), CartTotal(items))
}

func TestSummarize(t *testing.T) {
	t.Run("Flat fee below free-delivery threshold", func(t *testing.T) {
		// Excavator, Day, qty=1, duration=3, dailyRate=850 ⇒ subtotal=2550,
		// fee=200, tax=459, total=3209.
		s := Summarize(255000)
		assert.Equal(t, int64(255000), s.SubtotalCents)
		assert.Equal(t, int64(20000), s.DeliveryFeeCents)
		assert.Equal(t, int64(45900), s.TaxCents)
		assert.Equal(t, int64(320900), s.TotalCents)
	})

	t.Run("Free delivery above threshold", func(t *testing.T) {
		s := Summarize(600000)
		assert.Equal(t, int64(0), s.DeliveryFeeCents)
		assert.Equal(t, int64(108000), s.TaxCents)
		assert.Equal(t, int64(708000), s.TotalCents)
	})

	t.Run("Threshold boundary still pays the fee", func(t *testing.T) {
		s := Summarize(500000)
		assert.Equal(t, int64(20000), s.DeliveryFeeCents)
	})

	t.Run("Empty cart", func(t *testing.T) {
		s := Summarize(0)
		assert.Equal(t, int64(20000), s.DeliveryFeeCents)
		assert.Equal(t, int64(0), s.TaxCents)
		assert.Equal(t, int64(20000), s.TotalCents)
	})
}
