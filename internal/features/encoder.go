package features

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Lemiti/credit-risk-model/internal/domain"

	"gonum.org/v1/gonum/stat"
)

// ErrNoFitRows is returned when fitting an encoder over zero aggregates.
var ErrNoFitRows = errors.New("feature encoder: no rows to fit")

// Aggregate column names, in fixed fit order.
var (
	numericColumns     = []string{"amount_sum", "amount_mean", "amount_std", "value_sum", "value_mean", "value_std", "transaction_count"}
	categoricalColumns = []string{"channel_id", "product_category"}
)

// EncoderState is the fitted feature encoder: imputation medians and
// modes, scaling parameters and the one-hot vocabulary. It is an explicit
// value object so the exact training-time column layout can be persisted
// and replayed at inference time. All exported for JSON serialization
// into the model artifact.
type EncoderState struct {
	NumericColumns     []string            `json:"numeric_columns"`
	Medians            []float64           `json:"medians"` // imputation value per numeric column
	Means              []float64           `json:"means"`   // scaling mean per numeric column (post-imputation)
	Stds               []float64           `json:"stds"`    // population std per numeric column (post-imputation)
	CategoricalColumns []string            `json:"categorical_columns"`
	Modes              []string            `json:"modes"` // imputation value per categorical column
	Vocabulary         map[string][]string `json:"vocabulary"`
	Columns            []string            `json:"columns"` // full output layout, numeric then one-hot blocks
}

// FitEncoder computes encoder state from the training population:
// per numeric column the median over non-missing values (imputation),
// then mean and population std over the imputed values (scaling); per
// categorical column the mode (imputation) and the sorted category
// vocabulary (one-hot layout). Returns ErrNoFitRows on empty input.
func FitEncoder(aggs []domain.CustomerAggregate) (*EncoderState, error) {
	if len(aggs) == 0 {
		return nil, ErrNoFitRows
	}

	state := &EncoderState{
		NumericColumns:     append([]string(nil), numericColumns...),
		CategoricalColumns: append([]string(nil), categoricalColumns...),
		Vocabulary:         make(map[string][]string, len(categoricalColumns)),
	}

	// Numeric columns: median over present values, then scaling stats
	// over the imputed column.
	for _, name := range state.NumericColumns {
		present := make([]float64, 0, len(aggs))
		for i := range aggs {
			if v := numericValue(&aggs[i], name); v != nil {
				present = append(present, *v)
			}
		}
		med := median(present)
		state.Medians = append(state.Medians, med)

		imputed := make([]float64, len(aggs))
		for i := range aggs {
			if v := numericValue(&aggs[i], name); v != nil {
				imputed[i] = *v
			} else {
				imputed[i] = med
			}
		}
		state.Means = append(state.Means, stat.Mean(imputed, nil))
		state.Stds = append(state.Stds, stat.PopStdDev(imputed, nil))
	}

	// Categorical columns: mode for imputation, sorted vocabulary for
	// a deterministic one-hot layout.
	for _, name := range state.CategoricalColumns {
		values := make([]string, 0, len(aggs))
		for i := range aggs {
			if v := categoricalValue(&aggs[i], name); v != "" {
				values = append(values, v)
			}
		}
		state.Modes = append(state.Modes, mode(values))

		seen := make(map[string]struct{}, len(values))
		var vocab []string
		for _, v := range values {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vocab = append(vocab, v)
			}
		}
		sort.Strings(vocab)
		state.Vocabulary[name] = vocab
	}

	state.Columns = state.layoutColumns()
	return state, nil
}

// Transform encodes aggregates into fixed-width numeric rows using the
// fitted state: numeric columns are imputed with the training median and
// standardized; categorical columns are imputed with the training mode
// and one-hot encoded. A category never seen during fitting encodes as
// an all-zero block and is counted in unseen, never raised. Applying
// Transform twice to the same input yields identical output.
func (s *EncoderState) Transform(aggs []domain.CustomerAggregate) (rows []domain.FeatureRow, unseen int) {
	rows = make([]domain.FeatureRow, len(aggs))
	for i := range aggs {
		values := make([]float64, 0, len(s.Columns))

		for col, name := range s.NumericColumns {
			x := s.Medians[col]
			if v := numericValue(&aggs[i], name); v != nil {
				x = *v
			}
			values = append(values, s.standardize(col, x))
		}

		for col, name := range s.CategoricalColumns {
			v := categoricalValue(&aggs[i], name)
			if v == "" {
				v = s.Modes[col]
			}
			vocab := s.Vocabulary[name]
			idx := sort.SearchStrings(vocab, v)
			known := idx < len(vocab) && vocab[idx] == v
			if !known {
				unseen++
			}
			for j := range vocab {
				if known && j == idx {
					values = append(values, 1)
				} else {
					values = append(values, 0)
				}
			}
		}

		rows[i] = domain.FeatureRow{CustomerID: aggs[i].CustomerID, Values: values}
	}
	return rows, unseen
}

// standardize scales a numeric value with the fitted parameters.
// Zero-variance columns are defined as identically 0.
func (s *EncoderState) standardize(col int, x float64) float64 {
	if s.Stds[col] == 0 {
		return 0
	}
	return (x - s.Means[col]) / s.Stds[col]
}

// layoutColumns returns the full output column layout.
func (s *EncoderState) layoutColumns() []string {
	cols := append([]string(nil), s.NumericColumns...)
	for _, name := range s.CategoricalColumns {
		for _, v := range s.Vocabulary[name] {
			cols = append(cols, fmt.Sprintf("%s=%s", name, v))
		}
	}
	return cols
}

// numericValue extracts the named numeric column from an aggregate.
// Returns nil for missing values (std of a single-transaction customer)
// and for names the aggregate does not carry.
func numericValue(a *domain.CustomerAggregate, name string) *float64 {
	switch name {
	case "amount_sum":
		return &a.AmountSum
	case "amount_mean":
		return &a.AmountMean
	case "amount_std":
		return a.AmountStd
	case "value_sum":
		return &a.ValueSum
	case "value_mean":
		return &a.ValueMean
	case "value_std":
		return a.ValueStd
	case "transaction_count":
		count := float64(a.TransactionCount)
		return &count
	}
	return nil
}

func categoricalValue(a *domain.CustomerAggregate, name string) string {
	switch name {
	case "channel_id":
		return a.ChannelIDMode
	case "product_category":
		return a.ProductCategoryMode
	}
	return ""
}

// median returns the midpoint median of xs (mean of the two middle
// values for even counts). Returns 0 for an empty slice.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
