package regression

import (
	"encoding/json"
	"io"

	"price-backend/pkg/errors"
)

// Save writes the fitted model as JSON. A reloaded model predicts
// identically to the in-memory one.
func (lr *LinearRegression) Save(w io.Writer) error {
	if !lr.IsFitted {
		return errors.NewNotFittedError("LinearRegression", "Save")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lr); err != nil {
		return errors.Wrap(err, "encoding model")
	}
	return nil
}

// Load reads a model previously written by Save.
func Load(r io.Reader) (*LinearRegression, error) {
	var lr LinearRegression
	if err := json.NewDecoder(r).Decode(&lr); err != nil {
		return nil, errors.Wrap(err, "decoding model")
	}
	if !lr.IsFitted {
		return nil, errors.NewNotFittedError("LinearRegression", "Load")
	}
	if len(lr.Weights) != lr.NFeatures {
		return nil, errors.Newf("model weight count %d does not match feature count %d", len(lr.Weights), lr.NFeatures)
	}
	return &lr, nil
}
