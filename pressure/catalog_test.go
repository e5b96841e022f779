package pressure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_EveryModelHasEntry(t *testing.T) {
	models := Models()
	assert.Len(t, models, 47)
	seen := map[string]bool{}
	for _, m := range models {
		_, err := Lookup(m)
		require.NoError(t, err, m.String())
		assert.NotEmpty(t, m.String())
		assert.False(t, seen[m.String()], "duplicate part number %s", m)
		seen[m.String()] = true
	}
}

func TestCatalog_NonPositiveSpanIsFlagged(t *testing.T) {
	var invalid []Model
	for _, m := range Models() {
		rng, err := Lookup(m)
		require.NoError(t, err)
		if rng.Max <= rng.Min {
			invalid = append(invalid, m)
		}
	}
	// the published table carries min == max for this part
	assert.Equal(t, []Model{Model0005D}, invalid)

	err := ValidateCatalog()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), "AMS5935-0005-D:")
}

func TestLookup(t *testing.T) {
	tests := []struct {
		model    Model
		expected Range
	}{
		{Model0002D, Range{0, 2}},
		{Model1000DN, Range{0, 1000}},
		{Model0035DB, Range{-35, 35}},
		{Model0001DBN, Range{-1, 1}},
		{Model2000A, Range{0, 2000}},
		{Model1200B, Range{700, 1200}},
	}
	for _, test := range tests {
		t.Run(test.model.String(), func(t *testing.T) {
			rng, err := Lookup(test.model)
			require.NoError(t, err)
			assert.Equal(t, test.expected, rng)
		})
	}
}

func TestLookup_UnknownModel(t *testing.T) {
	_, err := Lookup(Model(200))
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Equal(t, "Model(200)", Model(200).String())
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		given    string
		expected Model
		err      error
	}{
		{"AMS5935-0002-D-B", Model0002DB, nil},
		{"ams5935-1200-b", Model1200B, nil},
		{" 0100-D-N ", Model0100DN, nil},
		{"0100-db", Model0100DB, nil},
		{"AMS5935-0050-DBN", Model0050DBN, nil},
		{"1000a", Model1000A, nil},
		{"0100-DB-N", Model0100DBN, nil},
		{"AMS5935-0035-D-N", 0, ErrUnknownModel},
		{"bogus", 0, ErrUnknownModel},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			m, err := ParseModel(test.given)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, m)
		})
	}
}
