package dataset

import (
	"math/rand"
	"strconv"
)

// Synthetic generates a housing dataset with columns square_footage,
// bedrooms, bathrooms, and price, where price is a noisy linear function of
// the features. It is used when no raw CSV is supplied and by the tests.
func Synthetic(n int, seed int64) *Table {
	rng := rand.New(rand.NewSource(seed))

	rows := make([][]string, n)
	for i := range rows {
		sqft := 600 + rng.Float64()*3400
		beds := float64(1 + rng.Intn(5))
		baths := float64(1 + rng.Intn(3))

		price := 50000 + 120*sqft + 15000*beds + 10000*baths + rng.NormFloat64()*20000

		rows[i] = []string{
			strconv.FormatFloat(sqft, 'f', 1, 64),
			strconv.FormatFloat(beds, 'f', 0, 64),
			strconv.FormatFloat(baths, 'f', 0, 64),
			strconv.FormatFloat(price, 'f', 2, 64),
		}
	}

	return &Table{
		Columns: []string{"square_footage", "bedrooms", "bathrooms", "price"},
		Rows:    rows,
	}
}
