package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFloodID = "http://environment.data.gov.uk/flood-monitoring/id/floods/061WAF23Charlbry"

func strPtr(s string) *string { return &s }

func loadFixture(t *testing.T) FeedResponse {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "floods.json"))
	require.NoError(t, err)

	var resp FeedResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestNormalizeItem(t *testing.T) {
	t.Run("full item", func(t *testing.T) {
		item := FeedItem{
			ID:          testFloodID,
			Description: "River Evenlode at Charlbury",
			EAAreaName:  "Thames",
			FloodArea: &FeedFloodArea{
				County:     strPtr("Oxfordshire"),
				RiverOrSea: strPtr("River Evenlode"),
			},
			Message:            "River levels are rising.",
			Severity:           "Flood Warning",
			SeverityLevel:      2,
			TimeMessageChanged: "2024-01-03T09:24:00",
		}

		want := FloodRecord{
			ID:                 testFloodID,
			Description:        "River Evenlode at Charlbury",
			EAAreaName:         "Thames",
			FloodArea:          FloodArea{County: "Oxfordshire", RiverOrSea: "River Evenlode"},
			Message:            "River levels are rising.",
			Severity:           "Flood Warning",
			SeverityLevel:      2,
			TimeMessageChanged: "2024-01-03T09:24:00",
		}
		if diff := cmp.Diff(want, NormalizeItem(item)); diff != "" {
			t.Fatalf("NormalizeItem mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing flood area", func(t *testing.T) {
		rec := NormalizeItem(FeedItem{ID: "no-area"})

		assert.Equal(t, UnknownValue, rec.FloodArea.County)
		assert.Equal(t, UnknownValue, rec.FloodArea.RiverOrSea)
	})

	t.Run("missing river or sea", func(t *testing.T) {
		rec := NormalizeItem(FeedItem{FloodArea: &FeedFloodArea{County: strPtr("Lancashire")}})

		assert.Equal(t, "Lancashire", rec.FloodArea.County)
		assert.Equal(t, UnknownValue, rec.FloodArea.RiverOrSea)
	})

	t.Run("empty strings count as missing", func(t *testing.T) {
		rec := NormalizeItem(FeedItem{FloodArea: &FeedFloodArea{County: strPtr(""), RiverOrSea: strPtr("")}})

		assert.Equal(t, UnknownValue, rec.FloodArea.County)
		assert.Equal(t, UnknownValue, rec.FloodArea.RiverOrSea)
	})

	t.Run("free text fields may be empty", func(t *testing.T) {
		rec := NormalizeItem(FeedItem{ID: "x", SeverityLevel: 3})

		assert.Empty(t, rec.Description)
		assert.Empty(t, rec.Message)
		assert.Empty(t, rec.Severity)
		assert.Equal(t, 3, rec.SeverityLevel)
	})
}

func TestNormalizeFeed_Fixture(t *testing.T) {
	records := NormalizeFeed(loadFixture(t))
	require.Len(t, records, 4)

	// Upstream order is preserved.
	assert.Equal(t, testFloodID, records[0].ID)
	assert.Equal(t, "Oxfordshire", records[0].FloodArea.County)
	assert.Equal(t, "River Evenlode", records[0].FloodArea.RiverOrSea)

	assert.Equal(t, "Wiltshire, South Gloucestershire", records[1].FloodArea.County)
	assert.Empty(t, records[1].Message)

	// Item without a floodArea object.
	assert.Equal(t, "East Midlands", records[2].EAAreaName)
	assert.Equal(t, UnknownValue, records[2].FloodArea.County)
	assert.Equal(t, UnknownValue, records[2].FloodArea.RiverOrSea)
	assert.Equal(t, 1, records[2].SeverityLevel)

	// floodArea present but riverOrSea absent.
	assert.Equal(t, "Lancashire", records[3].FloodArea.County)
	assert.Equal(t, UnknownValue, records[3].FloodArea.RiverOrSea)
}

func TestNormalizeFeed_Empty(t *testing.T) {
	records := NormalizeFeed(FeedResponse{})
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestNormalizeFeed_KeepsDuplicates(t *testing.T) {
	records := NormalizeFeed(FeedResponse{Items: []FeedItem{{ID: "a"}, {ID: "a"}}})
	assert.Len(t, records, 2)
}

func TestFloodRecord_JSONKeys(t *testing.T) {
	data, err := json.Marshal(FloodRecord{
		ID:        "id-1",
		FloodArea: FloodArea{County: "Kent", RiverOrSea: "River Medway"},
	})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"eaAreaName":""`)
	assert.Contains(t, string(data), `"floodArea":{"county":"Kent","riverOrSea":"River Medway"}`)
	assert.Contains(t, string(data), `"timeMessageChanged":""`)
}

func TestParseFeedTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-03T09:24:00", time.Date(2024, 1, 3, 9, 24, 0, 0, time.UTC)},
		{"2024-01-03T09:24:00Z", time.Date(2024, 1, 3, 9, 24, 0, 0, time.UTC)},
		{"2024-01-03T09:24", time.Date(2024, 1, 3, 9, 24, 0, 0, time.UTC)},
		{" 2024-01-03T09:24:00 ", time.Date(2024, 1, 3, 9, 24, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFeedTime(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseFeedTime("yesterday")
	assert.Error(t, err)
}

func TestSeverityClass(t *testing.T) {
	assert.Equal(t, "severity-level-1", SeverityClass(1))
	assert.Equal(t, "severity-level-4", SeverityClass(4))
}
