package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccessors(t *testing.T) {
	post := PostRecord(Post{ID: "Mars-Transit", Title: "Mars", Date: "2024-03-01"})
	assert.Equal(t, "mars-transit", post.LookupKey())
	assert.Equal(t, DefaultCoverImage, post.CoverImage())
	assert.NotNil(t, post.Tags())
	assert.Empty(t, post.Tags())

	chart := ChartRecord(Chart{ID: "ana", PersonName: "Ana", BirthDate: "1990-05-04", CoverImage: "/img/ana.png"})
	assert.Equal(t, "Ana", chart.Title())
	assert.Equal(t, "1990-05-04", chart.Date())
	assert.Equal(t, "/img/ana.png", chart.CoverImage())
}

func TestPostBodyPrefersContent(t *testing.T) {
	p := Post{Content: "<p>a</p>", HTML: "<p>b</p>"}
	assert.Equal(t, "<p>a</p>", p.BodyHTML())

	p.Content = ""
	assert.Equal(t, "<p>b</p>", p.BodyHTML())
}

func TestPositionAcceptsPlanetAndNumericPada(t *testing.T) {
	var pos []Position
	require.NoError(t, json.Unmarshal([]byte(`[
		{"planet":"Moon","longitude":123.5,"degree":"3°30'","nakshatra":"Magha","pada":2,"sign":"Leo","navamsa":"Aries"},
		{"label":"Sun","degree":12.25,"pada":"4"}
	]`), &pos))

	require.Len(t, pos, 2)
	assert.Equal(t, "Moon", pos[0].Label)
	require.NotNil(t, pos[0].Longitude)
	assert.InDelta(t, 123.5, *pos[0].Longitude, 1e-9)
	assert.Equal(t, "2", pos[0].Pada)
	assert.Equal(t, "3°30'", pos[0].Degree)
	assert.Equal(t, "Sun", pos[1].Label)
	assert.Equal(t, "12.25", pos[1].Degree)
	assert.Nil(t, pos[1].Longitude)
}

func TestChartHasNotes(t *testing.T) {
	assert.False(t, (&Chart{}).HasNotes())
	assert.False(t, (&Chart{Notes: json.RawMessage("null")}).HasNotes())
	assert.True(t, (&Chart{Notes: json.RawMessage(`{"yoga":"Gaja Kesari"}`)}).HasNotes())
}
