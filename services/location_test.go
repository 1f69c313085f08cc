package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationInfoKnownCity(t *testing.T) {
	s := NewLocationService(tables(t))

	info := s.Info(" Mumbai ")

	assert.True(t, info.Known)
	assert.Equal(t, "Mumbai", info.City)
	assert.Equal(t, "Maharashtra", info.State)
	assert.Equal(t, "maharashtra", info.Region)
	assert.Equal(t, 180000, info.RegionalGDP)
	assert.Equal(t, "high", info.SpendingPower)
	assert.Equal(t, "high", info.FestivalShoppingPotential)
	assert.Equal(t, "moderate", info.SeasonalDiscountEffectiveness)
	assert.Equal(t, "mature", info.MarketMaturity)
}

func TestLocationInfoTier1City(t *testing.T) {
	info := NewLocationService(tables(t)).Info("ahmedabad")

	assert.Equal(t, "gujarat", info.Region)
	assert.Equal(t, "moderate", info.SpendingPower)
	assert.Equal(t, "high", info.SeasonalDiscountEffectiveness)
	assert.Equal(t, "developing", info.MarketMaturity)
	assert.Equal(t, 160000, info.RegionalGDP)
	assert.Equal(t, "high", info.FestivalShoppingPotential)
	assert.Equal(t, []string{"diwali", "holi", "navratri"}, info.ShoppingSeasons)
}

func TestLocationInfoUnknownCity(t *testing.T) {
	info := NewLocationService(tables(t)).Info("Atlantis City")

	assert.False(t, info.Known)
	assert.Equal(t, "Atlantis City", info.City)
	assert.Equal(t, "all_india", info.Region)
	assert.Equal(t, "low", info.SpendingPower)
	assert.Equal(t, "emerging", info.MarketMaturity)
	assert.Equal(t, 150000, info.RegionalGDP)
	assert.Equal(t, []string{"diwali", "christmas"}, info.ShoppingSeasons)

	assert.Equal(t, info, DefaultInfo("atlantis_city"))
}

func TestCities(t *testing.T) {
	cities := NewLocationService(tables(t)).Cities()

	require.NotEmpty(t, cities)
	assert.True(t, sort.StringsAreSorted(cities))
	assert.Contains(t, cities, "mumbai")
	assert.Len(t, cities, len(tables(t).Cities))
}

func TestRegionalInsights(t *testing.T) {
	s := NewLocationService(tables(t))

	north := s.RegionalInsights("North India")
	assert.Equal(t, "north_india", north.Region)
	assert.Equal(t, "very_large", north.MarketSize)
	assert.Equal(t, "very_high", north.CompetitionLevel)
	assert.Equal(t, "very_high", north.ConsumerBehavior["festival_spending"])
	assert.Contains(t, north.MarketGaps, "Western Fashion")

	unknown := s.RegionalInsights("lakshadweep")
	assert.Equal(t, "medium", unknown.MarketSize)
	assert.Equal(t, "moderate", unknown.CompetitionLevel)
	assert.Equal(t, []string{"General Items"}, unknown.MarketGaps)
	assert.Len(t, unknown.KeyCompetitors, 3)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Navi Mumbai", displayName("navi_mumbai"))
	assert.Equal(t, "", displayName(""))
}
