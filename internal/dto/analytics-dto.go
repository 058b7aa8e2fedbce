package dto

// OverviewDTO is the analytics summary of the working set.
type OverviewDTO struct {
	TotalAccounts     int            `json:"total_accounts"`
	BalanceSheetCount int            `json:"balance_sheet_count"`
	ProfitLossCount   int            `json:"profit_loss_count"`
	MaxHierarchyLevel int            `json:"max_hierarchy_level"`
	AvgHierarchyLevel float64        `json:"avg_hierarchy_level"`
	RootCount         int            `json:"root_count"`
	LeafCount         int            `json:"leaf_count"`
	ByAccountType     map[string]int `json:"by_account_type"`
	ByStatementType   map[string]int `json:"by_statement_type"`
	ByHierarchyLevel  map[int]int    `json:"by_hierarchy_level"`
}

// InsightDTO is one generated narrative insight.
type InsightDTO struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations,omitempty"`
}
