package validation_test

import (
	"testing"

	"github.com/myrjola/holocron/internal/validation"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Page   int    `query:"page" validate:"min=1"`
	Search string `query:"search" validate:"max=5"`
	Route  string `yaml:"route" validate:"required"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, validation.Struct(sample{Page: 1, Search: "luke", Route: "/"}))

	err := validation.Struct(sample{Page: 0, Search: "skywalker", Route: ""})
	require.ErrorIs(t, err, validation.ErrInvalid)
	require.Contains(t, err.Error(), "page must be at least 1")
	require.Contains(t, err.Error(), "search must be at most 5")
	require.Contains(t, err.Error(), "route is a required field")
}
