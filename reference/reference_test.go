package reference

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	tables, err := Load()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(tables.Festivals), 50)
	assert.NotEmpty(t, tables.ProductFestivals)
	assert.NotEmpty(t, tables.FestivalBundles)
	assert.Len(t, tables.SeasonalBundles, 3)
	assert.NotEmpty(t, tables.Profiles)
	assert.Contains(t, tables.Directory, "mumbai")
	assert.Contains(t, tables.Cities, "mumbai")
	assert.Contains(t, tables.Regions, "maharashtra")

	diwali, ok := tables.Festival("diwali")
	require.True(t, ok)
	assert.Equal(t, "Diwali", diwali.Name)
	assert.Contains(t, diwali.Regions, AllIndia)

	_, ok = tables.Festival("not_a_festival")
	assert.False(t, ok)
}

func TestRegionOf(t *testing.T) {
	tables := MustLoad()

	assert.Equal(t, "maharashtra", tables.RegionOf("Mumbai"))
	assert.Equal(t, "north_india", tables.RegionOf(" delhi "))
	assert.Equal(t, AllIndia, tables.RegionOf("atlantis"))
}

func TestProductFestivalsFor(t *testing.T) {
	tables := MustLoad()

	m, ok := tables.ProductFestivalsFor("Kurti")
	require.True(t, ok)
	assert.Contains(t, m, "navratri")

	_, ok = tables.ProductFestivalsFor("quantum widget")
	assert.False(t, ok)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "ethnic_wear", NormalizeKey("Ethnic Wear"))
	assert.Equal(t, "t_shirts", NormalizeKey("T-Shirts"))
	assert.Equal(t, "saree", NormalizeKey("  SAREE "))
}

func minimalFS(festivals string) fstest.MapFS {
	return fstest.MapFS{
		"festivals.yaml":         {Data: []byte(festivals)},
		"product_festivals.yaml": {Data: []byte("products: {}\n")},
		"regions.yaml":           {Data: []byte("cities: {}\n")},
		"bundle_rules.yaml":      {Data: []byte("festival: {}\nseasonal: {}\n")},
		"sellers.yaml":           {Data: []byte("profiles: []\ndirectory: {}\n")},
		"cities.yaml":            {Data: []byte("cities: {}\nregions: {}\n")},
	}
}

func TestLoadFSRejectsBadCalendar(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := LoadFS(minimalFS("festivals: []\n"))
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("duplicate key", func(t *testing.T) {
		yml := `festivals:
- {key: holi, name: Holi, month: 3, day: 14, regions: [all_india], duration: 2}
- {key: holi, name: Holi, month: 3, day: 15, regions: [all_india], duration: 2}
`
		_, err := LoadFS(minimalFS(yml))
		assert.ErrorContains(t, err, "defined twice")
	})

	t.Run("bad date", func(t *testing.T) {
		yml := "festivals:\n- {key: x, name: X, month: 13, day: 1, regions: [all_india]}\n"
		_, err := LoadFS(minimalFS(yml))
		assert.ErrorContains(t, err, "invalid date")
	})

	t.Run("day past the end of the month", func(t *testing.T) {
		yml := "festivals:\n- {key: x, name: X, month: 2, day: 30, regions: [all_india], duration: 1}\n"
		_, err := LoadFS(minimalFS(yml))
		assert.ErrorContains(t, err, "invalid date 2/30")

		yml = "festivals:\n- {key: x, name: X, month: 4, day: 31, regions: [all_india], duration: 1}\n"
		_, err = LoadFS(minimalFS(yml))
		assert.ErrorContains(t, err, "invalid date 4/31")
	})

	t.Run("zero duration", func(t *testing.T) {
		yml := "festivals:\n- {key: x, name: X, month: 3, day: 14, regions: [all_india], duration: 0}\n"
		_, err := LoadFS(minimalFS(yml))
		assert.ErrorContains(t, err, "duration 0")
	})

	t.Run("negative shopping period", func(t *testing.T) {
		yml := "festivals:\n- {key: x, name: X, month: 3, day: 14, regions: [all_india], duration: 2, shopping_period: -5}\n"
		_, err := LoadFS(minimalFS(yml))
		assert.ErrorContains(t, err, "negative shopping period")
	})

	t.Run("missing file", func(t *testing.T) {
		fsys := minimalFS("festivals: []\n")
		delete(fsys, "cities.yaml")
		_, err := LoadFS(fsys)
		assert.ErrorContains(t, err, "cities.yaml")
	})
}

func TestLoadFSAcceptsLeapDay(t *testing.T) {
	yml := "festivals:\n- {key: x, name: X, month: 2, day: 29, regions: [all_india], duration: 1, shopping_period: 0}\n"
	tables, err := LoadFS(minimalFS(yml))
	require.NoError(t, err)
	f, ok := tables.Festival("x")
	require.True(t, ok)
	assert.Equal(t, 1, f.Duration)
}

func TestLoadDirEmptyUsesEmbedded(t *testing.T) {
	tables, err := LoadDir("")
	require.NoError(t, err)
	assert.NotEmpty(t, tables.Festivals)
}
