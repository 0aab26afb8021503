package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCatalog(t *testing.T) {
	require.NoError(t, ValidateCatalog())
	require.Len(t, Labels, 7)
	for _, l := range Labels {
		require.NotEmpty(t, l.Description(), "label %s", l)
	}
}

func TestValidateCatalog_Incomplete(t *testing.T) {
	table := map[Label]string{LabelCaries: "x"}
	err := validateCatalog([]Label{LabelCaries, LabelGum}, table)
	require.ErrorContains(t, err, `"Gum"`)

	err = validateCatalog([]Label{LabelCaries}, map[Label]string{LabelCaries: "x", LabelGum: "y"})
	require.ErrorContains(t, err, "unknown label")

	err = validateCatalog([]Label{LabelCaries, LabelCaries}, table)
	require.ErrorContains(t, err, "duplicate")
}
