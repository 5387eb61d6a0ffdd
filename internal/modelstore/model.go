// Package modelstore loads the trained travel-time model and keeps it cached
// in memory.
package modelstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/chrisdamba/traveltime/internal/models"
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

// Model is a trained predictor: features in, baseline minutes out.
type Model interface {
	Predict(ctx context.Context, features models.Features) (float64, error)
	Version() string
}

// LinearModel is a linear regression over the numeric features plus one-hot
// weights for categorical ones, keyed "field=value".
type LinearModel struct {
	ModelVersion string             `json:"version"`
	Intercept    float64            `json:"intercept"`
	Weights      map[string]float64 `json:"weights"`
	Categorical  map[string]float64 `json:"categorical"`
}

func (m *LinearModel) Version() string {
	return m.ModelVersion
}

func (m *LinearModel) Predict(ctx context.Context, features models.Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prediction := m.Intercept
	for name, value := range features.Numeric() {
		prediction += m.Weights[name] * value
	}
	for field, value := range features.Categorical() {
		prediction += m.Categorical[field+"="+value]
	}
	return prediction, nil
}

// DecodeLinearModel reads a JSON model artifact.
func DecodeLinearModel(r io.Reader) (*LinearModel, error) {
	var m LinearModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if len(m.Weights) == 0 && len(m.Categorical) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidArtifact)
	}
	if m.ModelVersion == "" {
		m.ModelVersion = "unversioned"
	}
	return &m, nil
}
