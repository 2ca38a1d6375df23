package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBestMatch(t *testing.T) {
	results := map[string]SearchResult{
		"Volvo B":          {Name: "Volvo B", Id: "5269"},
		"Volvo Car AB":     {Name: "Volvo Car AB", Id: "1060829"},
		"Volvo Certifikat": {Name: "Volvo Certifikat", Id: "563966"},
	}

	cases := []struct {
		term     string
		expected string
	}{
		{term: "volvo b", expected: "5269"},
		{term: "VOLVO  CAR ab", expected: "1060829"},
		{term: "volvo certifikat", expected: "563966"},
	}

	for _, c := range cases {
		best, ok := BestMatch(results, c.term)
		require.True(t, ok)
		require.Equal(t, c.expected, best.Id, c.term)
	}

	_, ok := BestMatch(map[string]SearchResult{}, "volvo")
	require.False(t, ok)
}
