package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

type sample struct {
	Name   string  `json:"stationName" validate:"required"`
	Lat    float64 `json:"latitude" validate:"required,latitude"`
	Status string  `json:"status" validate:"omitempty,oneof=A B"`
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	err := Check(New(), sample{Lat: 123, Status: "C"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "stationName is required")
	require.Contains(t, err.Error(), "latitude must be a valid latitude")
	require.Contains(t, err.Error(), "status must be one of A B")
}

func TestCheckPasses(t *testing.T) {
	require.NoError(t, Check(New(), sample{Name: "x", Lat: 37.5}))
}
