package preprocess

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"price-backend/internal/dataset"
	"price-backend/pkg/errors"
)

// Preprocessor learns cleaning and encoding parameters from a training table
// and applies the identical transformation to any later table or single
// prediction record. All fitted state is exported so the artifact
// round-trips through JSON.
type Preprocessor struct {
	Config Config `json:"config"`

	NumericColumns     []string            `json:"numeric_columns"`
	CategoricalColumns []string            `json:"categorical_columns"`
	FillValues         map[string]float64  `json:"fill_values"`
	Categories         map[string][]string `json:"categories"`
	FeatureMean        map[string]float64  `json:"feature_mean,omitempty"`
	FeatureStd         map[string]float64  `json:"feature_std,omitempty"`
	FeatureNames       []string            `json:"feature_names"`
	IsFitted           bool                `json:"fitted"`
}

func New(cfg Config) *Preprocessor {
	return &Preprocessor{Config: cfg.WithDefaults()}
}

// sourceColumns returns the feature source columns in a stable order:
// numeric first, then categorical, both in table order.
func (p *Preprocessor) sourceColumns() []string {
	return slices.Concat(p.NumericColumns, p.CategoricalColumns)
}

// Fit learns imputation values, categorical vocabularies, and optionally
// scaling statistics from the table. The target column must be present;
// configured drop columns are excluded from the feature set.
func (p *Preprocessor) Fit(t *dataset.Table) error {
	cfg := p.Config

	if !t.HasColumn(cfg.TargetColumn) {
		return errors.NewValidationError(cfg.TargetColumn, "target column not found")
	}
	if t.NumRows() == 0 {
		return errors.NewValidationError("", "cannot fit on a table with no rows")
	}

	work := t.DropColumns(cfg.DropColumns...)
	types := work.ColumnTypes()

	p.NumericColumns = nil
	p.CategoricalColumns = nil
	p.FillValues = make(map[string]float64)
	p.Categories = make(map[string][]string)

	for _, col := range work.Columns {
		if col == cfg.TargetColumn {
			continue
		}
		if types[col] == dataset.Numeric {
			p.NumericColumns = append(p.NumericColumns, col)
		} else {
			p.CategoricalColumns = append(p.CategoricalColumns, col)
		}
	}
	if len(p.NumericColumns)+len(p.CategoricalColumns) == 0 {
		return errors.NewValidationError("", "no feature columns remain after dropping")
	}

	for _, col := range p.NumericColumns {
		vals, _ := work.NumericColumn(col)
		fill, err := fillValue(vals, cfg.ImputeStrategy, cfg.ImputeValue)
		if err != nil {
			return errors.Wrapf(err, "imputing column %q", col)
		}
		p.FillValues[col] = fill
	}

	for _, col := range p.CategoricalColumns {
		var cats []string
		for _, cell := range work.Column(col) {
			if dataset.IsMissing(cell) {
				continue
			}
			if !slices.Contains(cats, cell) {
				cats = append(cats, cell)
			}
		}
		if !slices.Contains(cats, cfg.CategoricalFill) {
			cats = append(cats, cfg.CategoricalFill)
		}
		p.Categories[col] = cats
	}

	p.FeatureNames = nil
	for _, col := range p.NumericColumns {
		p.FeatureNames = append(p.FeatureNames, col)
	}
	for _, col := range p.CategoricalColumns {
		switch cfg.Encoding {
		case EncodeOneHot:
			for _, cat := range p.Categories[col] {
				p.FeatureNames = append(p.FeatureNames, col+"="+cat)
			}
		case EncodeOrdinal:
			p.FeatureNames = append(p.FeatureNames, col)
		default:
			return errors.Newf("unknown encoding strategy %q", cfg.Encoding)
		}
	}

	if cfg.ScaleNumeric {
		p.FeatureMean = make(map[string]float64)
		p.FeatureStd = make(map[string]float64)
		for _, col := range p.NumericColumns {
			vals, _ := work.NumericColumn(col)
			filled := imputed(vals, p.FillValues[col])
			mean, std := stat.MeanStdDev(filled, nil)
			if math.IsNaN(std) || std == 0 {
				std = 1
			}
			p.FeatureMean[col] = mean
			p.FeatureStd[col] = std
		}
	}

	p.IsFitted = true
	return nil
}

// NumFeatures is the width of the encoded feature matrix.
func (p *Preprocessor) NumFeatures() int { return len(p.FeatureNames) }

// Transform encodes a table into a feature matrix using the fitted
// parameters. Missing cells are imputed; categories unseen at fit time map
// to the placeholder category.
func (p *Preprocessor) Transform(t *dataset.Table) (*mat.Dense, error) {
	if !p.IsFitted {
		return nil, errors.NewNotFittedError("preprocessor", "Transform")
	}
	// mat.NewDense panics on zero dimensions.
	if t.NumRows() == 0 {
		return nil, errors.NewValidationError("", "cannot transform a table with no rows")
	}

	for _, col := range p.sourceColumns() {
		if !t.HasColumn(col) {
			return nil, errors.NewValidationError(col, "required column not found")
		}
	}

	X := mat.NewDense(t.NumRows(), p.NumFeatures(), nil)
	for i := 0; i < t.NumRows(); i++ {
		features, err := p.encodeCells(t.Row(i), false)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		X.SetRow(i, features)
	}
	return X, nil
}

// Target extracts the target column as a vector. Rows with missing targets
// must have been dropped beforehand.
func (p *Preprocessor) Target(t *dataset.Table) (*mat.VecDense, error) {
	vals, ok := t.NumericColumn(p.Config.TargetColumn)
	if !ok {
		return nil, errors.NewValidationError(p.Config.TargetColumn, "numeric target column not found")
	}
	if len(vals) == 0 {
		return nil, errors.NewValidationError(p.Config.TargetColumn, "no target values in table")
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			return nil, errors.NewValidationError(p.Config.TargetColumn, fmt.Sprintf("missing target value in row %d", i))
		}
	}
	return mat.NewVecDense(len(vals), vals), nil
}

// TransformRecord encodes one prediction request record. Every feature
// source column is required; a missing or non-coercible field yields an
// InvalidInputError.
func (p *Preprocessor) TransformRecord(record map[string]any) ([]float64, error) {
	if !p.IsFitted {
		return nil, errors.NewNotFittedError("preprocessor", "TransformRecord")
	}

	cells := make(map[string]string, len(record))
	for _, col := range p.sourceColumns() {
		v, ok := record[col]
		if !ok {
			return nil, errors.NewInvalidInputError(col, "required field is missing")
		}
		cell, err := coerceCell(v)
		if err != nil {
			return nil, errors.NewInvalidInputError(col, err.Error())
		}
		cells[col] = cell
	}

	return p.encodeCells(cells, true)
}

// encodeCells turns one row of raw cells into a feature vector. In strict
// mode a missing or unparseable numeric cell is an InvalidInputError; in
// table mode it is imputed.
func (p *Preprocessor) encodeCells(cells map[string]string, strict bool) ([]float64, error) {
	features := make([]float64, 0, p.NumFeatures())

	for _, col := range p.NumericColumns {
		cell := cells[col]
		var v float64
		if dataset.IsMissing(cell) {
			if strict {
				return nil, errors.NewInvalidInputError(col, "required field is missing")
			}
			v = p.FillValues[col]
		} else {
			parsed, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				if strict {
					return nil, errors.NewInvalidInputError(col, "numeric value required")
				}
				v = p.FillValues[col]
			} else {
				v = parsed
			}
		}
		if p.Config.ScaleNumeric {
			v = (v - p.FeatureMean[col]) / p.FeatureStd[col]
		}
		features = append(features, v)
	}

	for _, col := range p.CategoricalColumns {
		cats := p.Categories[col]
		cell := cells[col]
		if dataset.IsMissing(cell) || !slices.Contains(cats, cell) {
			cell = p.Config.CategoricalFill
		}
		idx := slices.Index(cats, cell)

		switch p.Config.Encoding {
		case EncodeOneHot:
			block := make([]float64, len(cats))
			block[idx] = 1
			features = append(features, block...)
		case EncodeOrdinal:
			features = append(features, float64(idx))
		}
	}

	return features, nil
}

// coerceCell converts a JSON request value to the raw cell representation
// used for CSV data, so both paths share the same encoding logic.
func coerceCell(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Save writes the fitted parameters as JSON.
func (p *Preprocessor) Save(w io.Writer) error {
	if !p.IsFitted {
		return errors.NewNotFittedError("preprocessor", "Save")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return errors.Wrap(err, "encoding preprocessor")
	}
	return nil
}

// Load reads fitted parameters previously written by Save.
func Load(r io.Reader) (*Preprocessor, error) {
	var p Preprocessor
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decoding preprocessor")
	}
	if !p.IsFitted {
		return nil, errors.NewNotFittedError("preprocessor", "Load")
	}
	return &p, nil
}
