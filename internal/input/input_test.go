package input

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

func TestLoadStartups_Headerless(t *testing.T) {
	path := writeCSV(t, "Acme Robotics,acme-robotics.test\nBeta Health, https://beta.health \n")

	res, err := LoadStartups(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, res.HasHeader)
	assert.Equal(t, []model.StartupRecord{
		{Name: "Acme Robotics", URL: "acme-robotics.test"},
		{Name: "Beta Health", URL: "https://beta.health"},
	}, res.Records)
	assert.Empty(t, res.Skipped)
}

func TestLoadStartups_HeaderDetectedAndMapped(t *testing.T) {
	path := writeCSV(t, "\ufeffWebsite,Notes,Company_Name\nhttps://acme.io,robots,Acme\nhttps://beta.io,,Beta\n")

	res, err := LoadStartups(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, res.HasHeader)
	require.Len(t, res.Records, 2)
	assert.Equal(t, model.StartupRecord{Name: "Acme", URL: "https://acme.io"}, res.Records[0])
	assert.Equal(t, "Beta", res.Records[1].Name)
}

func TestLoadStartups_HeaderAliases(t *testing.T) {
	for _, header := range []string{"startup_name,startup_url", "name,url", "company,website", "NAME , URL"} {
		path := writeCSV(t, header+"\nAcme,acme.io\n")
		res, err := LoadStartups(context.Background(), path)
		require.NoError(t, err, header)
		assert.True(t, res.HasHeader, header)
		assert.Len(t, res.Records, 1, header)
	}
}

func TestLoadStartups_UnrecognizedHeaderIsData(t *testing.T) {
	path := writeCSV(t, "title,link\nAcme,acme.io\n")

	res, err := LoadStartups(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, res.HasHeader)
	assert.Len(t, res.Records, 2)
}

func TestLoadStartups_SkipsInvalidRows(t *testing.T) {
	content := "Acme,acme.io\n" +
		"OnlyName\n" +
		" ,blank-name.io\n" +
		"NoURL,  \n" +
		"acme ,acme-duplicate.io\n" +
		"Beta,beta.io,extra\n"
	path := writeCSV(t, content)

	res, err := LoadStartups(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Acme", res.Records[0].Name)
	assert.Equal(t, "acme.io", res.Records[0].URL)
	assert.Equal(t, "Beta", res.Records[1].Name)

	assert.Equal(t, []SkippedRow{
		{Row: 2, Reason: ReasonTooFewColumns},
		{Row: 3, Reason: ReasonEmptyName},
		{Row: 4, Reason: ReasonEmptyURL},
		{Row: 5, Reason: ReasonDuplicate},
	}, res.Skipped)
}

func TestLoadStartups_SkipsSlugCollisions(t *testing.T) {
	path := writeCSV(t, "Acme Inc,acme.com\n\"Acme, Inc.\",acme.io\nÁcme-Inc,acme.dev\nBeta,beta.io\n")

	res, err := LoadStartups(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Acme Inc", res.Records[0].Name)
	assert.Equal(t, "acme.com", res.Records[0].URL)
	assert.Equal(t, "Beta", res.Records[1].Name)
	assert.Equal(t, []SkippedRow{
		{Row: 2, Reason: ReasonDuplicateSlug},
		{Row: 3, Reason: ReasonDuplicateSlug},
	}, res.Skipped)
}

func TestLoadStartups_ValidCountMatchesRows(t *testing.T) {
	path := writeCSV(t, "a,1\nb,2\nc\nd,4\n")

	res, err := LoadStartups(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Len(t, res.Skipped, 1)
}

func TestLoadStartups_EmptyInput(t *testing.T) {
	for _, content := range []string{"", "name,url\n", "only\n,\n"} {
		path := writeCSV(t, content)
		_, err := LoadStartups(context.Background(), path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyInput), "content %q", content)
	}
}

func TestLoadStartups_EmptyInputIsRootError(t *testing.T) {
	_, err := LoadStartups(context.Background(), writeCSV(t, "name,url\n"))
	require.ErrorIs(t, err, ErrEmptyInput)

	up := eris.Unpack(err)
	assert.Nil(t, up.ErrExternal)
	assert.Equal(t, "input: no valid startup entries found", up.ErrRoot.Msg)
}

func TestLoadStartups_MissingFile(t *testing.T) {
	_, err := LoadStartups(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyInput))
	assert.Contains(t, err.Error(), "input: open")
}
