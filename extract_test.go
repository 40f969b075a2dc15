package makerfetch_test

import (
	"testing"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) jsontree.Value {
	t.Helper()
	v, err := jsontree.Parse([]byte(doc))
	require.NoError(t, err)
	return v
}

const instancesPayload = `{
	"total": 2,
	"relatedItems": [
		{"id": 5, "title": "Another model"},
		{"id": 6, "title": "Yet another model"},
		{"id": 7, "title": "And another"}
	],
	"hits": [
		{
			"id": 101,
			"profileId": 9001,
			"title": "0.20mm Standard",
			"cover": "https://cdn.example.com/cover.png",
			"printerName": "Bambu Lab P2S",
			"materialName": "PLA",
			"prediction": 7200,
			"weight": 35.5,
			"layerHeight": 0.2,
			"nozzleDiameter": 0.4,
			"sparseInfillDensity": "15%",
			"wallLoops": 2,
			"enableSupport": false,
			"downloadUrl": "https://cdn.example.com/101.3mf"
		},
		{
			"id": 102,
			"profileId": 9002,
			"title": "0.12mm Fine",
			"printerName": "Bambu Lab X1 Carbon",
			"filaments": [{"type": "PETG", "color": "#ffffff"}],
			"prediction": "3:30:00",
			"weight": "41 g"
		}
	]
}`

func TestExtractCandidates(t *testing.T) {
	t.Parallel()

	t.Run("extracts fields from the variant array", func(t *testing.T) {
		t.Parallel()

		candidates := makerfetch.ExtractCandidates(parse(t, instancesPayload))
		require.Len(t, candidates, 2)

		first := candidates[0]
		require.NotNil(t, first.VariantID)
		assert.Equal(t, int64(101), *first.VariantID)
		require.NotNil(t, first.ProfileID)
		assert.Equal(t, int64(9001), *first.ProfileID)
		assert.Equal(t, "0.20mm Standard", first.Name)
		assert.Equal(t, "Bambu Lab P2S", first.Printer)
		assert.Equal(t, "PLA", first.Material)
		require.NotNil(t, first.EstimatedHours)
		assert.InDelta(t, 2.0, *first.EstimatedHours, 1e-9)
		require.NotNil(t, first.EstimatedGrams)
		assert.InDelta(t, 35.5, *first.EstimatedGrams, 1e-9)
		assert.Equal(t, "https://cdn.example.com/101.3mf", first.DownloadURL)

		require.NotNil(t, first.Settings.LayerHeightMM)
		assert.InDelta(t, 0.2, *first.Settings.LayerHeightMM, 1e-9)
		require.NotNil(t, first.Settings.NozzleDiameterMM)
		assert.InDelta(t, 0.4, *first.Settings.NozzleDiameterMM, 1e-9)
		require.NotNil(t, first.Settings.InfillPercent)
		assert.InDelta(t, 15.0, *first.Settings.InfillPercent, 1e-9)
		require.NotNil(t, first.Settings.WallLoops)
		assert.Equal(t, 2, *first.Settings.WallLoops)
		require.NotNil(t, first.Settings.SupportEnabled)
		assert.False(t, *first.Settings.SupportEnabled)
	})

	t.Run("falls back to the first filament type for material", func(t *testing.T) {
		t.Parallel()

		candidates := makerfetch.ExtractCandidates(parse(t, instancesPayload))
		require.Len(t, candidates, 2)

		second := candidates[1]
		assert.Equal(t, "PETG", second.Material)
		require.NotNil(t, second.EstimatedHours)
		assert.InDelta(t, 3.5, *second.EstimatedHours, 1e-9)
		require.NotNil(t, second.EstimatedGrams)
		assert.InDelta(t, 41.0, *second.EstimatedGrams, 1e-9)
		assert.Empty(t, second.DownloadURL)
	})

	t.Run("returns nothing for payloads without variants", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, makerfetch.ExtractCandidates(parse(t, `{"hits":[]}`)))
		assert.Empty(t, makerfetch.ExtractCandidates(parse(t, `{"hits":[{"title":"no ids"}]}`)))
	})
}

func TestSelectVariantArray(t *testing.T) {
	t.Parallel()

	t.Run("rejects decoy arrays with more items", func(t *testing.T) {
		t.Parallel()

		arr, ok := makerfetch.SelectVariantArray(parse(t, instancesPayload))
		require.True(t, ok)
		require.Len(t, arr.Items, 2)
		first, _ := jsontree.AsObject(arr.Items[0])
		id, _ := first.Get("id")
		assert.Equal(t, jsontree.Number(101), id)
	})

	t.Run("accepts a root array", func(t *testing.T) {
		t.Parallel()

		arr, ok := makerfetch.SelectVariantArray(parse(t, `[{"id":1,"printer":"X1C"}]`))
		require.True(t, ok)
		assert.Len(t, arr.Items, 1)
	})

	t.Run("breaks score ties by object count", func(t *testing.T) {
		t.Parallel()

		// 1 item scoring 8 vs 2 items scoring 4 each.
		doc := `{
			"variants":[{"id":1,"printer":"P2S","weight":10}],
			"list":[{"id":2},{"id":3}]
		}`
		arr, ok := makerfetch.SelectVariantArray(parse(t, doc))
		require.True(t, ok)
		assert.Len(t, arr.Items, 2)
	})

	t.Run("reports no array when nothing scores", func(t *testing.T) {
		t.Parallel()

		_, ok := makerfetch.SelectVariantArray(parse(t, `{"items":[{"color":"red"}]}`))
		assert.False(t, ok)
	})
}

func TestExtractCandidate(t *testing.T) {
	t.Parallel()

	t.Run("rejects nodes without ids", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, makerfetch.ExtractCandidate(parse(t, `{"title":"x","printer":"P2S"}`)))
		assert.Nil(t, makerfetch.ExtractCandidate(parse(t, `"string"`)))
	})

	t.Run("accepts a profile id alone", func(t *testing.T) {
		t.Parallel()

		c := makerfetch.ExtractCandidate(parse(t, `{"profileId":"77","name":"Draft"}`))
		require.NotNil(t, c)
		assert.Nil(t, c.VariantID)
		require.NotNil(t, c.ProfileID)
		assert.Equal(t, int64(77), *c.ProfileID)
		assert.Equal(t, "Draft", c.Name)
		assert.Equal(t, makerfetch.Unknown, c.Printer)
		assert.Equal(t, makerfetch.Unknown, c.Material)
	})

	t.Run("prefers a top-level name over nested names", func(t *testing.T) {
		t.Parallel()

		c := makerfetch.ExtractCandidate(parse(t, `{"id":1,"printerName":"P2S","name":"Fast"}`))
		require.NotNil(t, c)
		assert.Equal(t, "Fast", c.Name)
	})
}

func TestExtractProfile(t *testing.T) {
	t.Parallel()

	c := makerfetch.ExtractProfile(parse(t, `{"data":{"printer":{"devProductName":"Bambu Lab P2S"},"filamentType":"ABS","costTime":5400,"weightG":12.5}}`))
	require.NotNil(t, c)
	assert.Equal(t, "Bambu Lab P2S", c.Printer)
	assert.Equal(t, "ABS", c.Material)
	require.NotNil(t, c.EstimatedHours)
	assert.InDelta(t, 1.5, *c.EstimatedHours, 1e-9)
	require.NotNil(t, c.EstimatedGrams)
	assert.InDelta(t, 12.5, *c.EstimatedGrams, 1e-9)
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	t.Run("prefers the nested design object", func(t *testing.T) {
		t.Parallel()

		doc := `{"props":{"pageProps":{"title":"MakerWorld","design":{"id":1,"title":"Benchy","designer":{"name":"Bob"}}}}}`
		assert.Equal(t, "Benchy", makerfetch.ExtractTitle(parse(t, doc)))
	})

	t.Run("reads the title of a bare design payload", func(t *testing.T) {
		t.Parallel()

		doc := `{"designer":{"name":"Alice"},"id":1,"title":"Cube"}`
		assert.Equal(t, "Cube", makerfetch.ExtractTitle(parse(t, doc)))
	})

	t.Run("returns empty when there is no title", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, makerfetch.ExtractTitle(parse(t, `{"id":1}`)))
	})
}

func TestExtractDownloadURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://cdn.example.com/a.3mf",
		makerfetch.ExtractDownloadURL(parse(t, `{"name":"a.3mf","url":"https://cdn.example.com/a.3mf"}`)))
	assert.Equal(t, "/files/b.3mf",
		makerfetch.ExtractDownloadURL(parse(t, `{"data":{"downloadUrl":"/files/b.3mf"}}`)))
	assert.Empty(t, makerfetch.ExtractDownloadURL(parse(t, `{"url":"not a url"}`)))
}
