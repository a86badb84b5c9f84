package renderbusinessplan

import (
	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/render"
)

type Input struct {
	RequestId string                 `json:"requestId"`
	Document  *businessplan.Document `json:"document"`
	Theme     *businessplan.Theme    `json:"theme,omitempty"`
	// Sections limits rendering to these keys; empty renders all 13.
	Sections []string `json:"sections,omitempty"`
}

type Output struct {
	RequestId string        `json:"requestId"`
	Pages     []render.Page `json:"pages"`
	HTML      string        `json:"html"`
}
