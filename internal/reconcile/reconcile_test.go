package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens/leaflens-go/internal/model"
)

func TestEnrichScansJoinsByScanID(t *testing.T) {
	scans := []model.Scan{
		{ScanID: 1, UserID: 7},
		{ScanID: 2, UserID: 7},
	}
	records := []model.AnalysisRecord{
		{ScanID: 2, Species: "Tomato", Disease: "Early Blight", SpeciesConfidence: 91.5, DiseaseConfidence: 83.2},
	}

	out := EnrichScans(scans, records)
	require.Len(t, out, 2)

	assert.Equal(t, DefaultSpecies, out[0].Species)
	assert.Equal(t, DefaultDisease, out[0].Disease)
	assert.Zero(t, out[0].SpeciesConfidence)
	assert.Zero(t, out[0].DiseaseConfidence)

	assert.Equal(t, "Tomato", out[1].Species)
	assert.Equal(t, "Early Blight", out[1].Disease)
	assert.InDelta(t, 91.5, out[1].SpeciesConfidence, 0.001)
}

func TestEnrichScansFirstMatchWins(t *testing.T) {
	scans := []model.Scan{{ScanID: 5}}
	records := []model.AnalysisRecord{
		{ScanID: 5, Species: "Rose"},
		{ScanID: 5, Species: "Tulip"},
	}

	out := EnrichScans(scans, records)
	require.Len(t, out, 1)
	assert.Equal(t, "Rose", out[0].Species)
}

func TestEnrichScansIdempotentAndNonMutating(t *testing.T) {
	scans := []model.Scan{{ScanID: 1}, {ScanID: 2}}
	records := []model.AnalysisRecord{{ScanID: 1, Species: "Fern"}}

	first := EnrichScans(scans, records)
	second := EnrichScans(scans, records)
	assert.Equal(t, first, second)

	assert.Equal(t, []model.Scan{{ScanID: 1}, {ScanID: 2}}, scans)
	assert.Equal(t, []model.AnalysisRecord{{ScanID: 1, Species: "Fern"}}, records)
}

func TestEnrichScansEmptyInputs(t *testing.T) {
	assert.Empty(t, EnrichScans(nil, nil))
	out := EnrichScans(nil, []model.AnalysisRecord{{ScanID: 1}})
	assert.Empty(t, out)
}

func TestCoverPhotoPrefersSelected(t *testing.T) {
	photos := []model.PlantPhoto{
		{ID: "a"},
		{ID: "b", IsSelected: true},
		{ID: "c"},
	}

	cover, ok := CoverPhoto(photos)
	require.True(t, ok)
	assert.Equal(t, "b", cover.ID)
}

func TestCoverPhotoFallsBackToFirst(t *testing.T) {
	photos := []model.PlantPhoto{{ID: "1"}, {ID: "2"}}

	cover, ok := CoverPhoto(photos)
	require.True(t, ok)
	assert.Equal(t, "1", cover.ID)

	// removing the first entry promotes the next
	cover, ok = CoverPhoto(photos[1:])
	require.True(t, ok)
	assert.Equal(t, "2", cover.ID)
}

func TestCoverPhotoEmptyList(t *testing.T) {
	_, ok := CoverPhoto(nil)
	assert.False(t, ok)
}

func TestSortByRecencyDescending(t *testing.T) {
	scans := []model.Scan{
		{ScanID: 1, Date: "2024-01-02"},
		{ScanID: 2},
		{ScanID: 3, Date: "2024-01-01"},
	}

	out := SortByRecency(scans)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].ScanID)
	assert.Equal(t, 3, out[1].ScanID)
	// dateless record keys at the epoch and sorts last
	assert.Equal(t, 2, out[2].ScanID)

	// input order unchanged
	assert.Equal(t, 1, scans[0].ScanID)
	assert.Equal(t, 2, scans[1].ScanID)
}

func TestSortByRecencyFieldPriority(t *testing.T) {
	scans := []model.Scan{
		{ScanID: 1, Timestamp: "2024-06-01T00:00:00Z"},
		{ScanID: 2, Date: "2024-01-01", Timestamp: "2024-12-31T00:00:00Z"},
	}

	// date takes priority over timestamp, so scan 2 is older
	out := SortByRecency(scans)
	assert.Equal(t, 1, out[0].ScanID)
	assert.Equal(t, 2, out[1].ScanID)
}

func TestSortByRecencyStableForUnparseable(t *testing.T) {
	scans := []model.Scan{
		{ScanID: 1, Date: "not a date"},
		{ScanID: 2},
		{ScanID: 3, Date: "???"},
	}

	out := SortByRecency(scans)
	assert.Equal(t, []int{out[0].ScanID, out[1].ScanID, out[2].ScanID}, []int{1, 2, 3})
}

func TestSortByRecencyForumPosts(t *testing.T) {
	posts := []model.ForumPost{
		{PostID: 1, CreatedAt: "2024-03-01T08:00:00Z"},
		{PostID: 2, Timestamp: "2024-04-01T08:00:00Z"},
	}

	out := SortByRecency(posts)
	assert.Equal(t, 2, out[0].PostID)
	assert.Equal(t, 1, out[1].PostID)
}
