package importbusinessplan

import "bizplan-workers/internal/businessplan"

// Input carries the caller's fallback document, keyed by camelCase or kebab
// section keys.
type Input struct {
	RequestId string                 `json:"requestId"`
	Data      map[string]interface{} `json:"data"`
}

type Output struct {
	DocumentId string                 `json:"documentId"`
	RequestId  string                 `json:"requestId"`
	Document   *businessplan.Document `json:"document"`
	ImportPath string                 `json:"importPath"` // "concurrent" or "sequential"
}
