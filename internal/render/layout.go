package render

import (
	"bizplan-workers/internal/businessplan"
)

// textBlock is one labelled paragraph. Placeholder is shown when the field is
// empty.
type textBlock struct {
	Field       string
	Heading     string
	Placeholder string
}

// gridStyle picks which card attributes a grid shows.
type gridStyle int

const (
	// value over label
	statGrid gridStyle = iota
	// name, value and percentage in the card colour
	segmentGrid
	// name, description and percentage in the card colour
	featureGrid
	// category, amount and percentage in the card colour
	allocationGrid
)

type cardGrid struct {
	Field   string
	Heading string
	Style   gridStyle
}

// highlight is a short figure shown above the text blocks when set.
type highlight struct {
	Field string
	Label string
}

type layout struct {
	Blocks     []textBlock
	Grids      []cardGrid
	Highlights []highlight
}

const teamBioPlaceholder = "Experienced professional contributing to our team's success."

var layouts = map[businessplan.SectionKey]layout{
	businessplan.CompanyDescription: {
		Blocks: []textBlock{
			{"legalStructure", "Legal Structure", "Our company operates as a [legal structure] established to provide innovative solutions in our target market. We maintain full compliance with all regulatory requirements and industry standards."},
			{"companyHistory", "Company History", "Founded with a vision to transform the industry, our company has grown from a startup concept to a market-ready organization. Our journey reflects our commitment to innovation and excellence."},
			{"industry", "Industry Focus", "We operate in a dynamic industry with significant growth potential. Our focus on emerging trends and customer needs positions us for sustainable success."},
			{"visionStatement", "Vision Statement", "To become the leading provider of innovative solutions that transform how businesses operate and deliver value to their customers."},
			{"uniqueValueProposition", "Unique Value Proposition", "Our unique combination of expertise, technology, and customer focus creates unmatched value for our clients and stakeholders."},
		},
		Grids: []cardGrid{{"statsCards", "", statGrid}},
	},
	businessplan.MarketAnalysis: {
		Highlights: []highlight{
			{"totalMarket", "Total Market"},
			{"marketGrowth", "Market Growth"},
		},
		Blocks: []textBlock{
			{"industryAnalysis", "Industry Analysis", "The industry shows strong growth potential with emerging opportunities driven by technological advancement and changing consumer preferences."},
			{"targetMarket", "Target Market", "Our target market consists of forward-thinking businesses and consumers who value innovation and quality solutions."},
			{"marketSize", "Market Size", "The addressable market represents a significant opportunity with projected growth rates exceeding industry averages."},
			{"competitorAnalysis", "Competitive Analysis", "Our competitive landscape analysis reveals opportunities for differentiation and market positioning."},
			{"competitiveAdvantage", "Competitive Advantage", "Our competitive advantages include proprietary technology, experienced team, and strong customer relationships."},
		},
		Grids: []cardGrid{{"marketSegments", "Market Segments", segmentGrid}},
	},
	businessplan.OrganizationManagement: {
		Blocks: []textBlock{
			{"stakeholderInfo", "Stakeholder Information", "Our stakeholder ecosystem includes investors, advisors, customers, and strategic partners who contribute to our success."},
			{"leadershipTeam", "Leadership Team", "Our leadership team combines decades of industry experience with fresh perspectives and innovative thinking."},
			{"organizationalStructure", "Organizational Structure", "Our flat organizational structure promotes collaboration, quick decision-making, and efficient communication."},
			{"advisoryBoard", "Advisory Board", "Our advisory board provides strategic guidance and industry expertise to support our growth objectives."},
			{"keyPersonnel", "Key Personnel", "Our key personnel bring specialized skills and experience essential for executing our business strategy."},
		},
	},
	businessplan.ProductService: {
		Blocks: []textBlock{
			{"productDescription", "Product Description", "Our innovative products and services are designed to meet the evolving needs of our target market with superior quality and value."},
			{"benefitsToCustomers", "Benefits to Customers", "Our solutions provide measurable benefits including cost savings, improved efficiency, and enhanced user experience."},
			{"developmentStage", "Development Stage", "Our products are in advanced development stages with proven market validation and customer feedback integration."},
			{"intellectualProperty", "Intellectual Property", "We maintain a strong intellectual property portfolio including patents, trademarks, and proprietary technologies."},
			{"futureProducts", "Future Products", "Our product roadmap includes exciting innovations that will expand our market reach and customer value proposition."},
		},
		Grids: []cardGrid{{"productFeatures", "Product Features", featureGrid}},
	},
	businessplan.MarketingSales: {
		Blocks: []textBlock{
			{"marketingStrategy", "Marketing Strategy", "Our comprehensive marketing strategy leverages digital channels, content marketing, and strategic partnerships to reach our target audience."},
			{"salesStrategy", "Sales Strategy", "Our sales approach combines direct sales, channel partnerships, and digital platforms to maximize market penetration and customer acquisition."},
			{"pricingStrategy", "Pricing Strategy", "Our competitive pricing strategy balances value delivery with market positioning to ensure sustainable profitability and customer satisfaction."},
			{"distributionChannels", "Distribution Channels", "We utilize multiple distribution channels including direct sales, online platforms, and strategic partnerships to reach customers effectively."},
			{"promotionStrategy", "Promotion Strategy", "Our promotional activities include digital marketing, industry events, thought leadership, and customer referral programs."},
		},
		Grids: []cardGrid{{"marketingChannels", "Marketing Channels", segmentGrid}},
	},
	businessplan.FinancialProjections: {
		Highlights: []highlight{
			{"projectedRevenue", "Projected Revenue"},
			{"revenueTimeline", "Revenue Timeline"},
		},
		Blocks: []textBlock{
			{"startupCosts", "Startup Costs", "Initial investment requirements include technology development, market entry, team building, and operational setup costs."},
			{"salesForecast", "Sales Forecast", "Our sales projections show steady growth based on market analysis, customer acquisition strategies, and product development milestones."},
			{"expenseProjections", "Expense Projections", "Operating expenses include personnel, technology, marketing, and administrative costs with careful attention to scalability and efficiency."},
			{"breakEvenAnalysis", "Break-Even Analysis", "Break-even analysis indicates the point at which revenues will cover all fixed and variable costs, projected within the first 18-24 months."},
			{"fundingNeeds", "Funding Needs", "Total funding requirements are calculated to support operations through profitability with appropriate reserves for growth opportunities."},
		},
		Grids: []cardGrid{{"financialMetrics", "Key Financial Metrics", statGrid}},
	},
	businessplan.FundingRequest: {
		Blocks: []textBlock{
			{"currentFundingNeeds", "Current Funding Needs", "We are seeking initial funding to accelerate product development, market entry, and team expansion to capture market opportunities."},
			{"futureFundingNeeds", "Future Funding Needs", "Future funding rounds will support scaling operations, international expansion, and additional product development initiatives."},
			{"useOfFunds", "Use of Funds", "Investment funds will be allocated across product development, marketing, team expansion, and operational infrastructure to ensure sustainable growth."},
			{"strategicFinancialSituation", "Strategic Financial Situation", "Our financial strategy focuses on achieving profitability while maintaining growth momentum and building long-term shareholder value."},
			{"exitStrategy", "Exit Strategy", "Potential exit strategies include strategic acquisition by industry leaders or public offering, providing attractive returns for investors."},
		},
		Grids: []cardGrid{{"fundingAllocation", "Funding Allocation", allocationGrid}},
	},
	businessplan.Appendix: {
		Blocks: []textBlock{
			{"resumes", "Resumes", "Detailed resumes of key team members and advisors highlighting relevant experience and qualifications."},
			{"permits", "Permits & Licenses", "All necessary business permits, licenses, and regulatory approvals required for operations."},
			{"legalDocuments", "Legal Documents", "Corporate formation documents, partnership agreements, and intellectual property filings."},
			{"marketResearch", "Market Research", "Comprehensive market research data, customer surveys, and competitive analysis reports."},
			{"additionalInfo", "Additional Information", "Supplementary materials including product specifications, technical documentation, and reference materials."},
		},
	},
	businessplan.GovernmentPolicy: {
		Blocks: []textBlock{
			{"industryRegulations", "Industry Regulations", "Overview of key industry regulations that impact our business operations and strategic planning."},
			{"complianceRequirements", "Compliance Requirements", "Detailed compliance framework ensuring adherence to all applicable laws and regulations."},
			{"licensingRequirements", "Licensing Requirements", "Required licenses and permits for business operations with timeline for acquisition and renewal."},
			{"policyChanges", "Policy Changes", "Analysis of recent and anticipated policy changes that may impact business operations and strategy."},
			{"taxIncentives", "Tax Incentives", "Available tax incentives and benefits that support business growth and investment in our sector."},
		},
	},
	businessplan.NGOLandscape: {
		Blocks: []textBlock{
			{"relevantNGOs", "Relevant NGOs", "Identification of NGOs and non-profit organizations aligned with our mission and values for potential collaboration."},
			{"potentialPartnerships", "Potential Partnerships", "Strategic partnership opportunities with NGOs that can enhance our social impact and market reach."},
			{"resourcesOffered", "Resources Offered", "Resources and support services available through NGO partnerships including funding, expertise, and network access."},
			{"contactInformation", "Contact Information", "Key contact information for relevant NGOs and partnership coordinators for future collaboration."},
			{"successStories", "Success Stories", "Examples of successful business-NGO partnerships that demonstrate mutual benefit and social impact."},
		},
	},
	businessplan.Grants: {
		Blocks: []textBlock{
			{"governmentGrants", "Government Grants", "Available government grants and funding programs that align with our business objectives and eligibility criteria."},
			{"ngoGrants", "NGO Grants", "Grant opportunities from NGOs and foundations that support businesses with social impact and community benefit."},
			{"eligibilityCriteria", "Eligibility Criteria", "Detailed eligibility requirements for various grant programs and our qualification status for each opportunity."},
			{"applicationProcess", "Application Process", "Step-by-step application process for grant programs including required documentation and submission procedures."},
			{"applicationDeadlines", "Application Deadlines", "Important deadlines for grant applications and funding cycles to ensure timely submission and consideration."},
			{"grantAcquisitionStrategy", "Grant Acquisition Strategy", "Strategic approach to grant acquisition including prioritization, application timeline, and success metrics."},
		},
		Grids: []cardGrid{{"fundingStats", "Funding Statistics", statGrid}},
	},
}
