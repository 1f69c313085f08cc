// Package reference loads the static tables the rescue engine reads: the festival
// calendar, product to festival mappings, city regions, bundle rules, seller data and
// city economics. The tables ship embedded in the binary and can be replaced from a
// directory holding files with the same names.
package reference

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"deadstock/models"
)

//go:embed data/*.yaml
var embedded embed.FS

// AllIndia is the pseudo-region every unknown city resolves to.
const AllIndia = "all_india"

// Tables is the immutable reference data. Share one value across goroutines.
type Tables struct {
	Festivals        []models.Festival
	ProductFestivals map[string]map[string]string
	CityRegions      map[string]string
	FestivalBundles  map[string]models.BundleRule
	SeasonalBundles  map[string]models.BundleRule
	Profiles         []models.ShopkeeperProfile
	Directory        map[string]map[string][]models.LocalSeller
	Cities           map[string]models.CityProfile
	Regions          map[string]models.RegionProfile

	festivalIndex map[string]int
}

type festivalsFile struct {
	Festivals []models.Festival `yaml:"festivals"`
}

type productFestivalsFile struct {
	Products map[string]map[string]string `yaml:"products"`
}

type regionsFile struct {
	Cities map[string]string `yaml:"cities"`
}

type bundleRulesFile struct {
	Festival map[string]models.BundleRule `yaml:"festival"`
	Seasonal map[string]models.BundleRule `yaml:"seasonal"`
}

type sellersFile struct {
	Profiles  []models.ShopkeeperProfile                 `yaml:"profiles"`
	Directory map[string]map[string][]models.LocalSeller `yaml:"directory"`
}

type citiesFile struct {
	Cities  map[string]models.CityProfile   `yaml:"cities"`
	Regions map[string]models.RegionProfile `yaml:"regions"`
}

// Load reads the embedded tables.
func Load() (*Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded reference data: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir reads the tables from dir. An empty dir means the embedded copy.
func LoadDir(dir string) (*Tables, error) {
	if dir == "" {
		return Load()
	}
	return LoadFS(os.DirFS(dir))
}

// MustLoad is Load for tests and init paths that cannot continue without data.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadFS reads every table from fsys and checks the calendar.
// Product mappings may name occasions without a calendar date (weddings, winter sales);
// lookups skip those.
func LoadFS(fsys fs.FS) (*Tables, error) {
	var (
		fest     festivalsFile
		products productFestivalsFile
		regions  regionsFile
		bundles  bundleRulesFile
		sellers  sellersFile
		cities   citiesFile
	)

	files := []struct {
		name string
		into interface{}
	}{
		{"festivals.yaml", &fest},
		{"product_festivals.yaml", &products},
		{"regions.yaml", &regions},
		{"bundle_rules.yaml", &bundles},
		{"sellers.yaml", &sellers},
		{"cities.yaml", &cities},
	}
	for _, f := range files {
		if err := decode(fsys, f.name, f.into); err != nil {
			return nil, err
		}
	}

	t := &Tables{
		Festivals:        fest.Festivals,
		ProductFestivals: products.Products,
		CityRegions:      regions.Cities,
		FestivalBundles:  bundles.Festival,
		SeasonalBundles:  bundles.Seasonal,
		Profiles:         sellers.Profiles,
		Directory:        sellers.Directory,
		Cities:           cities.Cities,
		Regions:          cities.Regions,
		festivalIndex:    make(map[string]int, len(fest.Festivals)),
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	return t, nil
}

func decode(fsys fs.FS, name string, into interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (t *Tables) check() error {
	if len(t.Festivals) == 0 {
		return fmt.Errorf("festival calendar is empty")
	}
	for i, f := range t.Festivals {
		if f.Key == "" {
			return fmt.Errorf("festival #%d has no key", i)
		}
		if _, dup := t.festivalIndex[f.Key]; dup {
			return fmt.Errorf("festival %q is defined twice", f.Key)
		}
		if f.Month < 1 || f.Month > 12 || f.Day < 1 || f.Day > daysIn(time.Month(f.Month)) {
			return fmt.Errorf("festival %q has invalid date %d/%d", f.Key, f.Month, f.Day)
		}
		if f.Duration < 1 {
			return fmt.Errorf("festival %q has duration %d, want at least 1 day", f.Key, f.Duration)
		}
		if f.ShoppingPeriod < 0 {
			return fmt.Errorf("festival %q has negative shopping period %d", f.Key, f.ShoppingPeriod)
		}
		if len(f.Regions) == 0 {
			return fmt.Errorf("festival %q has no regions", f.Key)
		}
		t.festivalIndex[f.Key] = i
	}
	return nil
}

// daysIn reports the longest length of m, so 29 February is a valid festival date.
func daysIn(m time.Month) int {
	return time.Date(2024, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Festival returns the calendar entry for key.
func (t *Tables) Festival(key string) (models.Festival, bool) {
	i, ok := t.festivalIndex[key]
	if !ok {
		return models.Festival{}, false
	}
	return t.Festivals[i], true
}

// RegionOf maps a city to its festival region. Unknown cities belong to all of India.
func (t *Tables) RegionOf(city string) string {
	if r, ok := t.CityRegions[NormalizeKey(city)]; ok {
		return r
	}
	return AllIndia
}

// ProductFestivalsFor returns the festival mapping for a product key, if any.
func (t *Tables) ProductFestivalsFor(key string) (map[string]string, bool) {
	m, ok := t.ProductFestivals[NormalizeKey(key)]
	return m, ok
}

// NormalizeKey lowercases s and joins words with underscores: "Ethnic Wear" -> "ethnic_wear".
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
