// Command gencountries writes testdata/countries.csv, a country mapping for the
// sample users created by the seeder on an empty database.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paystats/reporter/internal/ingestion"
)

var countries = []string{
	"Russia", "USA", "Germany", "Brazil", "India",
	"Japan", "Kenya", "Mexico", "France", "Canada",
}

func main() {
	users := flag.Int("users", 100, "number of seeded users to map")
	unknown := flag.Int("unknown", 5, "rows referencing users that do not exist")
	flag.Parse()

	dir := findTestdataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}
	path := filepath.Join(dir, "countries.csv")
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}

	count, err := writeCountries(f, rand.New(rand.NewSource(42)), *users, *unknown)
	if err != nil {
		f.Close()
		panic(err)
	}
	if err := f.Close(); err != nil {
		panic(err)
	}
	fmt.Printf("Generated %d country rows -> %s\n", count, path)
}

// writeCountries maps user ids 1..users to countries, skewed so top_n has
// something to choose from, then appends rows for ids that do not exist.
// It returns the number of data rows written.
func writeCountries(out io.Writer, rng *rand.Rand, users, unknown int) (int, error) {
	w := csv.NewWriter(out)
	w.Comma = ingestion.Delimiter

	count := 0
	write := func(record ...string) error {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", count+1, err)
		}
		return nil
	}

	if err := write(ingestion.ColumnUserID, ingestion.ColumnCountry); err != nil {
		return 0, err
	}
	for id := 1; id <= users; id++ {
		idx := int(rng.ExpFloat64()*2) % len(countries)
		if err := write(strconv.Itoa(id), countries[idx]); err != nil {
			return count, err
		}
		count++

		// 3% of users also appear under a second country.
		if rng.Float64() < 0.03 {
			if err := write(strconv.Itoa(id), countries[rng.Intn(len(countries))]); err != nil {
				return count, err
			}
			count++
		}
	}
	for i := 0; i < unknown; i++ {
		if err := write(strconv.Itoa(1_000_000+i), countries[rng.Intn(len(countries))]); err != nil {
			return count, err
		}
		count++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return count, fmt.Errorf("flush: %w", err)
	}
	return count, nil
}

func findTestdataDir() string {
	candidates := []string{
		"testdata",
		filepath.Join("..", "..", "testdata"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	// Fallback.
	return "testdata"
}
