package registry

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2030, time.March, 4, 5, 6, 7, 0, time.UTC)

func TestBuild(t *testing.T) {
	reg := Build("https://api.example.com/bpc/", fixedNow)

	require.NoError(t, reg.Validate())
	assert.Equal(t, "https://api.example.com/bpc", reg.BaseURL)
	assert.Equal(t, "2030-03-04T05:06:07Z", reg.LastUpdated)

	keys := reg.Keys()
	require.Len(t, keys, 13)
	assert.Equal(t, "cover-page", keys[0])
	assert.Equal(t, "grants", keys[12])

	assert.Equal(t, "https://api.example.com/bpc/market-analysis", reg.Endpoints()["market-analysis"])

	cover, ok := reg.Section("coverPage")
	require.True(t, ok)
	assert.Equal(t, 1, cover.Position)
	assert.Contains(t, cover.Scalars, "companyName")
	assert.Contains(t, cover.Collections, "statsCards")

	toc, ok := reg.Section("table-of-contents")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"showPageNumbers", "includeSubsections"}, toc.Booleans)

	_, ok = reg.Section("executive-summary")
	assert.False(t, ok)

	require.Len(t, reg.Tasks, 2)
	assert.Contains(t, reg.Tasks[0].ErrorCodes, "MALFORMED_FALLBACK_ENCODING")
}

func TestRebase(t *testing.T) {
	reg := Build("http://old.local", fixedNow)
	later := fixedNow.Add(time.Hour)
	reg.Rebase("https://new.local/bpc/", later)

	assert.Equal(t, "https://new.local/bpc", reg.BaseURL)
	assert.Equal(t, "https://new.local/bpc/grants", reg.Endpoints()["grants"])
	assert.Equal(t, "2030-03-04T06:06:07Z", reg.LastUpdated)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SectionRegistry)
		errMsg string
	}{
		{"missing section", func(r *SectionRegistry) { r.Sections = r.Sections[1:] }, "lists 12 sections"},
		{"duplicate key", func(r *SectionRegistry) { r.Sections[1] = r.Sections[0] }, "duplicate section key"},
		{"out of order", func(r *SectionRegistry) {
			r.Sections[1], r.Sections[2] = r.Sections[2], r.Sections[1]
		}, "section 2 is"},
		{"bad position", func(r *SectionRegistry) { r.Sections[4].Position = 9 }, "position 9"},
		{"empty task type", func(r *SectionRegistry) { r.Tasks[1].TaskType = "" }, "taskType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Build("http://localhost", fixedNow)
			tt.mutate(reg)
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "sections.json")
	reg := Build("http://localhost:9000", fixedNow)
	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg, loaded)
}

func TestWrite_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build("http://localhost", fixedNow).Write(&buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	sections := decoded["sections"].([]interface{})
	first := sections[0].(map[string]interface{})
	assert.Equal(t, "cover-page", first["key"])
	assert.Equal(t, "coverPage", first["documentKey"])
	assert.Equal(t, "http://localhost/cover-page", first["url"])
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
