// Package artifact loads the pre-trained regression model used for point
// predictions and exposes its predict contract. Training happens elsewhere;
// this package only consumes the exported artifact.
package artifact

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// Regressor scores feature matrices. Features returns the model's input
// column names in training order; Predict expects rows with exactly that
// many values in that order.
type Regressor interface {
	Features() []string
	Predict(rows [][]float64) ([]float64, error)
}

// modelDocument is the artifact wire format.
type modelDocument struct {
	ModelType    string    `json:"model_type"`
	Features     []string  `json:"features"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// LinearModel is an ordinary linear regressor: intercept plus one
// coefficient per feature.
type LinearModel struct {
	features     []string
	intercept    float64
	coefficients []float64
}

func NewLinearModel(features []string, intercept float64, coefficients []float64) (*LinearModel, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("model has no features")
	}
	if len(coefficients) != len(features) {
		return nil, fmt.Errorf("model has %d coefficients for %d features", len(coefficients), len(features))
	}
	return &LinearModel{
		features:     append([]string(nil), features...),
		intercept:    intercept,
		coefficients: append([]float64(nil), coefficients...),
	}, nil
}

func (m *LinearModel) Features() []string {
	return append([]string(nil), m.features...)
}

func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(m.coefficients) {
			return nil, fmt.Errorf("row %d has %d values, model expects %d", i, len(row), len(m.coefficients))
		}
		y := m.intercept
		for j, value := range row {
			y += m.coefficients[j] * value
		}
		out = append(out, y)
	}
	return out, nil
}

func decodeModel(raw []byte) (Regressor, error) {
	var doc modelDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	switch doc.ModelType {
	case "linear", "":
		return NewLinearModel(doc.Features, doc.Intercept, doc.Coefficients)
	default:
		return nil, fmt.Errorf("unsupported model type %q", doc.ModelType)
	}
}
