package preprocess

// Impute strategies for missing numeric values.
const (
	ImputeMean     = "mean"
	ImputeMedian   = "median"
	ImputeConstant = "constant"
)

// Encoding strategies for categorical columns.
const (
	EncodeOneHot  = "onehot"
	EncodeOrdinal = "ordinal"
)

// DefaultCategoricalFill is the placeholder category substituted for missing
// categorical cells.
const DefaultCategoricalFill = "missing"

// Config enumerates the recognized preprocessing options and their defaults.
type Config struct {
	TargetColumn    string   `yaml:"target_column" json:"target_column"`
	DropColumns     []string `yaml:"drop_columns" json:"drop_columns,omitempty"`
	ImputeStrategy  string   `yaml:"impute_strategy" json:"impute_strategy"`
	ImputeValue     float64  `yaml:"impute_value" json:"impute_value,omitempty"`
	CategoricalFill string   `yaml:"categorical_fill" json:"categorical_fill"`
	Encoding        string   `yaml:"encoding" json:"encoding"`
	ScaleNumeric    bool     `yaml:"scale_numeric" json:"scale_numeric"`
	FilterOutliers  bool     `yaml:"filter_outliers" json:"filter_outliers"`
	SplitRatio      float64  `yaml:"split_ratio" json:"split_ratio"`

	// Seed is a pointer so an explicitly configured zero seed is
	// distinguishable from an omitted one.
	Seed *int64 `yaml:"seed" json:"seed"`
}

// DefaultConfig targets the housing dataset: predict price, impute with the
// column mean, one-hot encode categoricals, 80/20 split.
func DefaultConfig() Config {
	seed := int64(42)
	return Config{
		TargetColumn:    "price",
		ImputeStrategy:  ImputeMean,
		CategoricalFill: DefaultCategoricalFill,
		Encoding:        EncodeOneHot,
		SplitRatio:      0.8,
		Seed:            &seed,
	}
}

// WithDefaults fills unset options with their default values.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.TargetColumn == "" {
		c.TargetColumn = def.TargetColumn
	}
	if c.ImputeStrategy == "" {
		c.ImputeStrategy = def.ImputeStrategy
	}
	if c.CategoricalFill == "" {
		c.CategoricalFill = def.CategoricalFill
	}
	if c.Encoding == "" {
		c.Encoding = def.Encoding
	}
	if c.SplitRatio == 0 {
		c.SplitRatio = def.SplitRatio
	}
	if c.Seed == nil {
		c.Seed = def.Seed
	}
	return c
}
