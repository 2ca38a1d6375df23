package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "volvob", NormalizeName("  Volvo \t B\n"))
	require.Equal(t, "", NormalizeName(" "))
}

func TestField(t *testing.T) {
	title := "Senast uppdaterad 17:29:59"
	require.Equal(t, "17:29:59", Field(title, 2))
	require.Equal(t, "Senast", Field(title, 0))
	require.Equal(t, "", Field(title, 3))
	require.Equal(t, "", Field("", 0))
}

func TestSegment(t *testing.T) {
	href := "/aktier/om-aktien.html/5361/volvo-b"
	require.Equal(t, "", Segment(href, 0))
	require.Equal(t, "aktier", Segment(href, 1))
	require.Equal(t, "5361", Segment(href, 3))
	require.Equal(t, "", Segment(href, 9))
	require.Equal(t, "", Segment(href, -1))
}
