package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectNoMatches(t *testing.T) {
	candidate := Identity{Name: "Ramesh Patel", DOB: "1978-04-12"}
	existing := []Identity{
		{Name: "Sunita Rao", DOB: "1985-09-23"},
		{Name: "Vikram Shah"},
	}

	res := Detect(candidate, existing)
	assert.False(t, res.IsDuplicate)
	assert.Nil(t, res.Match)
}

func TestDetectSingleFieldMatch(t *testing.T) {
	candidate := Identity{Name: "ramesh patel", DOB: "1990-01-01"}
	existing := []Identity{
		{Name: "Ramesh Patel", DOB: "1978-04-12"},
	}

	res := Detect(candidate, existing)
	require.True(t, res.IsDuplicate)
	assert.Equal(t, 1, res.Match.MatchCount)
	assert.Equal(t, 20, res.Match.SimilarityPercent)
	assert.Equal(t, []string{"name"}, res.Match.MatchedFields)
}

func TestDetectNormalization(t *testing.T) {
	candidate := Identity{
		Name:    "  RAMESH PATEL ",
		GCode:   "g1021",
		Pancard: " abcpe1234f ",
	}
	existing := []Identity{
		{Name: "Ramesh Patel", GCode: "G1021", Pancard: "ABCPE1234F"},
	}

	res := Detect(candidate, existing)
	require.True(t, res.IsDuplicate)
	assert.Equal(t, 3, res.Match.MatchCount)
	assert.Equal(t, []string{"name", "g_code", "pancard"}, res.Match.MatchedFields)
}

func TestDetectAadharIsCaseSensitiveExact(t *testing.T) {
	// aadhar and dob compare exactly after trimming only
	res := Detect(
		Identity{AadharCard: " 4321 8765 1098 "},
		[]Identity{{AadharCard: "4321 8765 1098"}},
	)
	require.True(t, res.IsDuplicate)
	assert.Equal(t, []string{"aadhar_card"}, res.Match.MatchedFields)
}

func TestDetectEmptyFieldsSkipped(t *testing.T) {
	// an empty field on either side is neither a match nor a mismatch
	candidate := Identity{Name: "Meena Iyer", DOB: ""}
	existing := []Identity{
		{Name: "Meena Iyer", DOB: "1990-06-07"},
	}

	res := Detect(candidate, existing)
	require.True(t, res.IsDuplicate)
	assert.Equal(t, 1, res.Match.MatchCount)
}

func TestDetectPicksHighestMatchCount(t *testing.T) {
	candidate := Identity{Name: "Meena Iyer", DOB: "1990-06-07", Pancard: "QRSPT3456H"}
	existing := []Identity{
		{Name: "Meena Iyer"},
		{Name: "Meena Iyer", DOB: "1990-06-07", Pancard: "QRSPT3456H"},
		{Name: "Meena Iyer", DOB: "1990-06-07"},
	}

	res := Detect(candidate, existing)
	require.True(t, res.IsDuplicate)
	assert.Equal(t, 1, res.Match.Index)
	assert.Equal(t, 3, res.Match.MatchCount)
	assert.Equal(t, 60, res.Match.SimilarityPercent)
}

func TestDetectTieResolvesToFirst(t *testing.T) {
	candidate := Identity{Name: "Arjun Nair", DOB: "1992-12-18"}
	existing := []Identity{
		{Name: "Arjun Nair", DOB: "1992-12-18"},
		{Name: "Arjun Nair", DOB: "1992-12-18"},
	}

	res := Detect(candidate, existing)
	require.True(t, res.IsDuplicate)
	assert.Equal(t, 0, res.Match.Index)
}

func TestDetectFullMatchIsHundredPercent(t *testing.T) {
	id := Identity{
		Name:       "Ramesh Patel",
		DOB:        "1978-04-12",
		GCode:      "G1021",
		Pancard:    "ABCPE1234F",
		AadharCard: "4321 8765 1098",
	}

	res := Detect(id, []Identity{id})
	require.True(t, res.IsDuplicate)
	assert.Equal(t, 5, res.Match.MatchCount)
	assert.Equal(t, 100, res.Match.SimilarityPercent)
}

func TestSimilarityIsTwentyPerField(t *testing.T) {
	full := Identity{
		Name:       "Ramesh Patel",
		DOB:        "1978-04-12",
		GCode:      "G1021",
		Pancard:    "ABCPE1234F",
		AadharCard: "4321 8765 1098",
	}
	partials := []Identity{
		{Name: full.Name},
		{Name: full.Name, DOB: full.DOB},
		{Name: full.Name, DOB: full.DOB, GCode: full.GCode},
		{Name: full.Name, DOB: full.DOB, GCode: full.GCode, Pancard: full.Pancard},
		full,
	}

	for i, partial := range partials {
		res := Detect(partial, []Identity{full})
		require.True(t, res.IsDuplicate)
		assert.Equal(t, i+1, res.Match.MatchCount)
		assert.Equal(t, (i+1)*20, res.Match.SimilarityPercent)
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	candidate := Identity{Name: "Sunita Rao", GCode: "G1044"}
	existing := []Identity{
		{Name: "Sunita Rao"},
		{GCode: "G1044", Pancard: "XYZPR5678K"},
	}

	first := Detect(candidate, existing)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Detect(candidate, existing))
	}
}
