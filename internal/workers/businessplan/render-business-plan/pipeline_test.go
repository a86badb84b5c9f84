package renderbusinessplan

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/importer"
	ibp "bizplan-workers/internal/workers/businessplan/import-business-plan"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remoteStub map[string]map[string]interface{}

func (r remoteStub) FetchJSON(_ context.Context, endpoint string) map[string]interface{} {
	return r[endpoint]
}

// The import job's output variables feed the render job unchanged, the way a
// BPMN process passes them between service tasks.
func TestPipeline_ImportThenRender(t *testing.T) {
	remote := remoteStub{
		"/organization-management": {
			"team_members": []interface{}{
				map[string]interface{}{"firstName": "Ada", "lastName": "Lovelace", "title": "CEO", "ownership": 60},
			},
		},
	}
	importHandler := ibp.NewHandler(ibp.LoadConfig(), logger.NewTestLogger(t), importer.New(remote), nil)

	imported, err := importHandler.Execute(context.Background(), &ibp.Input{
		RequestId: "req-pipe",
		Data: map[string]interface{}{
			"coverPage": map[string]interface{}{"companyName": "Pipeline Co"},
			"appendix":  map[string]interface{}{"permits": "City business licence"},
			"fundingRequest": map[string]interface{}{
				"fundingAllocation": `[{"category":"Hiring","percentage":40,"color":"#0f766e"}]`,
			},
		},
	})
	require.NoError(t, err)

	variables, err := json.Marshal(imported)
	require.NoError(t, err)

	var input Input
	require.NoError(t, json.Unmarshal(variables, &input))
	input.Sections = []string{"cover-page", "organization-management", "funding-request", "appendix"}

	output, err := createTestHandler(t, nil).Execute(context.Background(), &input)
	require.NoError(t, err)
	assert.Equal(t, "req-pipe", output.RequestId)
	require.Len(t, output.Pages, 4)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(output.HTML))
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Find(".page-box").Length())
	assert.Equal(t, "Pipeline Co", strings.TrimSpace(doc.Find(".cover-title").Text()))
	assert.Equal(t, "Ada Lovelace", strings.TrimSpace(doc.Find(".member-name").First().Text()))
	assert.Contains(t, doc.Find(".ownership-value").Text(), "60%")
	assert.Contains(t, output.HTML, "City business licence")
	assert.Contains(t, doc.Find(`.bp-grid[data-field="fundingAllocation"]`).Text(), "Hiring")
}
