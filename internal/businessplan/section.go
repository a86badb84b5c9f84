// Package businessplan holds the document model shared by the importer, the
// renderer and the job workers: the 13 fixed sections, their declared fields,
// and the normalized content types.
package businessplan

import (
	"fmt"
	"strings"
)

// SectionKey identifies one of the fixed business-plan sections.
type SectionKey string

const (
	CoverPage              SectionKey = "cover-page"
	TableOfContents        SectionKey = "table-of-contents"
	CompanyDescription     SectionKey = "company-description"
	MarketAnalysis         SectionKey = "market-analysis"
	OrganizationManagement SectionKey = "organization-management"
	ProductService         SectionKey = "product-service"
	MarketingSales         SectionKey = "marketing-sales"
	FinancialProjections   SectionKey = "financial-projections"
	FundingRequest         SectionKey = "funding-request"
	Appendix               SectionKey = "appendix"
	GovernmentPolicy       SectionKey = "government-policy"
	NGOLandscape           SectionKey = "ngo-landscape"
	Grants                 SectionKey = "grants"
)

// FieldKind tells the resolver how a field is merged.
type FieldKind string

const (
	KindScalar     FieldKind = "scalar"
	KindBool       FieldKind = "bool"
	KindCollection FieldKind = "collection"
)

// FieldSpec declares one field of a section.
type FieldSpec struct {
	Name string
	Kind FieldKind
	// Default applies to KindBool only.
	Default bool
	// RemoteAliases are checked before Name when reading the remote payload.
	RemoteAliases []string
}

// Section describes a section: identifiers, remote endpoint, headings and fields.
type Section struct {
	Key         SectionKey
	DocumentKey string
	Title       string
	Subtitle    string
	Fields      []FieldSpec
}

// Endpoint is the remote path suffix for the section.
func (s Section) Endpoint() string {
	return "/" + string(s.Key)
}

// Field returns the declared field with the given name.
func (s Section) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames lists the declared field names of the given kind, in declaration order.
func (s Section) FieldNames(kind FieldKind) []string {
	var names []string
	for _, f := range s.Fields {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}

func scalars(names ...string) []FieldSpec {
	out := make([]FieldSpec, len(names))
	for i, n := range names {
		out[i] = FieldSpec{Name: n, Kind: KindScalar}
	}
	return out
}

func collection(name string, aliases ...string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindCollection, RemoteAliases: aliases}
}

func withFields(groups ...[]FieldSpec) []FieldSpec {
	var out []FieldSpec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var sections = []Section{
	{
		Key:         CoverPage,
		DocumentKey: "coverPage",
		Title:       "Cover Page",
		Subtitle:    "Business Plan",
		Fields: withFields(
			scalars("companyName", "subtitle", "year", "preparedBy"),
			[]FieldSpec{collection("statsCards")},
		),
	},
	{
		Key:         TableOfContents,
		DocumentKey: "tableOfContents",
		Title:       "Table of Contents",
		Subtitle:    "Navigate Your Business Journey",
		Fields: []FieldSpec{
			{Name: "showPageNumbers", Kind: KindBool, Default: true},
			{Name: "includeSubsections", Kind: KindBool, Default: false},
		},
	},
	{
		Key:         CompanyDescription,
		DocumentKey: "companyDescription",
		Title:       "Company Description",
		Subtitle:    "Foundation & Vision",
		Fields: withFields(
			scalars("legalStructure", "companyHistory", "industry", "visionStatement", "uniqueValueProposition"),
			[]FieldSpec{collection("statsCards")},
		),
	},
	{
		Key:         MarketAnalysis,
		DocumentKey: "marketAnalysis",
		Title:       "Market Analysis",
		Subtitle:    "Market Opportunity & Competitive Landscape",
		Fields: withFields(
			scalars("industryAnalysis", "targetMarket", "marketSize", "competitorAnalysis",
				"competitiveAdvantage", "totalMarket", "marketGrowth"),
			[]FieldSpec{collection("marketSegments")},
		),
	},
	{
		Key:         OrganizationManagement,
		DocumentKey: "organizationManagement",
		Title:       "Organization and Management",
		Subtitle:    "Leadership Team & Organizational Structure",
		Fields: withFields(
			scalars("stakeholderInfo", "leadershipTeam", "organizationalStructure", "advisoryBoard", "keyPersonnel"),
			[]FieldSpec{
				collection("teamMembers", "team_members"),
				collection("stakeholders"),
			},
		),
	},
	{
		Key:         ProductService,
		DocumentKey: "productService",
		Title:       "Service or Product Line",
		Subtitle:    "Innovation Meets Excellence",
		Fields: withFields(
			scalars("productDescription", "benefitsToCustomers", "developmentStage", "intellectualProperty", "futureProducts"),
			[]FieldSpec{collection("productFeatures")},
		),
	},
	{
		Key:         MarketingSales,
		DocumentKey: "marketingSales",
		Title:       "Marketing & Sales Strategy",
		Subtitle:    "Customer Acquisition & Growth Strategy",
		Fields: withFields(
			scalars("marketingStrategy", "salesStrategy", "pricingStrategy", "distributionChannels", "promotionStrategy"),
			[]FieldSpec{collection("marketingChannels")},
		),
	},
	{
		Key:         FinancialProjections,
		DocumentKey: "financialProjections",
		Title:       "Financial Projections",
		Subtitle:    "5-Year Financial Roadmap",
		Fields: withFields(
			scalars("startupCosts", "salesForecast", "expenseProjections", "breakEvenAnalysis", "fundingNeeds"),
			[]FieldSpec{collection("financialMetrics")},
			scalars("projectedRevenue", "revenueTimeline"),
		),
	},
	{
		Key:         FundingRequest,
		DocumentKey: "fundingRequest",
		Title:       "Funding Request",
		Subtitle:    "Investment Opportunity & Capital Requirements",
		Fields: withFields(
			scalars("currentFundingNeeds", "futureFundingNeeds", "useOfFunds", "strategicFinancialSituation", "exitStrategy"),
			[]FieldSpec{collection("fundingAllocation")},
		),
	},
	{
		Key:         Appendix,
		DocumentKey: "appendix",
		Title:       "Appendix",
		Subtitle:    "Supporting Documents & Additional Information",
		Fields:      scalars("resumes", "permits", "legalDocuments", "marketResearch", "additionalInfo"),
	},
	{
		Key:         GovernmentPolicy,
		DocumentKey: "governmentPolicy",
		Title:       "Government Policy",
		Subtitle:    "Regulatory Environment & Compliance",
		Fields:      scalars("industryRegulations", "complianceRequirements", "licensingRequirements", "policyChanges", "taxIncentives"),
	},
	{
		Key:         NGOLandscape,
		DocumentKey: "ngoLandscape",
		Title:       "NGO Landscape",
		Subtitle:    "Partnership Opportunities & Resources",
		Fields:      scalars("relevantNGOs", "potentialPartnerships", "resourcesOffered", "contactInformation", "successStories"),
	},
	{
		Key:         Grants,
		DocumentKey: "grants",
		Title:       "Grants & Funding",
		Subtitle:    "Available Grants & Application Strategy",
		Fields: withFields(
			scalars("governmentGrants", "ngoGrants", "eligibilityCriteria", "applicationProcess",
				"applicationDeadlines", "grantAcquisitionStrategy"),
			[]FieldSpec{collection("fundingStats")},
		),
	},
}

// legacyKeys maps identifiers used by older page layouts onto current keys.
var legacyKeys = map[string]SectionKey{
	"service-product-line":       ProductService,
	"appendix-government-policy": GovernmentPolicy,
	"appendix-ngo-landscape":     NGOLandscape,
	"appendix-grants":            Grants,
}

var sectionIndex = func() map[SectionKey]int {
	idx := make(map[SectionKey]int, len(sections))
	for i, s := range sections {
		idx[s.Key] = i
	}
	return idx
}()

// Sections returns all sections in fixed document order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Keys returns the section keys in fixed document order.
func Keys() []SectionKey {
	keys := make([]SectionKey, len(sections))
	for i, s := range sections {
		keys[i] = s.Key
	}
	return keys
}

// Lookup returns the section definition for key.
func Lookup(key SectionKey) (Section, bool) {
	i, ok := sectionIndex[key]
	if !ok {
		return Section{}, false
	}
	return sections[i], true
}

// Position returns the 1-based page position of key, or 0 if unknown.
func Position(key SectionKey) int {
	i, ok := sectionIndex[key]
	if !ok {
		return 0
	}
	return i + 1
}

// ParseSectionKey resolves a kebab key, a camelCase document key or a legacy
// layout identifier.
func ParseSectionKey(s string) (SectionKey, error) {
	s = strings.TrimSpace(s)
	if _, ok := sectionIndex[SectionKey(s)]; ok {
		return SectionKey(s), nil
	}
	if k, ok := legacyKeys[s]; ok {
		return k, nil
	}
	for _, sec := range sections {
		if sec.DocumentKey == s {
			return sec.Key, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Valid reports whether k is one of the fixed section keys.
func (k SectionKey) Valid() bool {
	_, ok := sectionIndex[k]
	return ok
}
