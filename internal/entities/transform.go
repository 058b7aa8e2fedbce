package entities

// MaxHierarchyDepth caps the recursive hierarchy walk, matching the platform
// transformation's L1..L10 flattening.
const MaxHierarchyDepth = 10

// EnrichedAccount is the output row of the COA transformation pipeline.
type EnrichedAccount struct {
	Level         int    `json:"NUM_FIN_STAT_LEVEL"`
	Order         int    `json:"NUM_FIN_STAT_ORDER"`
	Rank          string `json:"CODE_FIN_STAT_RANK"`
	Code          string `json:"CODE_FIN_STAT"`
	Name          string `json:"NAME_FIN_STAT"`
	NameIndented  string `json:"NAME_FIN_STAT_INDENT"`
	ParentCode    string `json:"CODE_PARENT_FIN_STAT"`
	ParentName    string `json:"NAME_FIN_STAT_PARENT"`
	NameEng       string `json:"NAME_FIN_STAT_ENG"`
	AccountType   string `json:"TYPE_ACCOUNT"`
	StatementType string `json:"TYPE_FIN_STATEMENT"`
	IsLeaf        int    `json:"NFLAG_IS_LEAF"`
	CodePath      string `json:"CODE_FIN_STAT_FULL"`
	NamePath      string `json:"NAME_FIN_STAT_FULL"`

	// Flattened path levels, 1-based up to MaxHierarchyDepth.
	CodeLevels        []string `json:"CODE_FIN_STAT_LEVELS"`
	NameLevels        []string `json:"NAME_FIN_STAT_LEVELS"`
	OrderedNameLevels []string `json:"NAME_FIN_STAT_LEVELS_ORDERED_NAME"`
}

// SubunitAccount is an enriched COA row cross-joined with a business subunit.
type SubunitAccount struct {
	BusinessSubunit string `json:"PK_BUSINESS_SUBUNIT"`
	EnrichedAccount
}

// CentralMapping maps a business-unit account code onto the central COA.
type CentralMapping struct {
	BusinessSubunit string `json:"FK_BUSINESS_SUBUNIT"`
	SourceCode      string `json:"SOURCE_CODE_FIN_STAT"`
	CentralCode     string `json:"FININ_CODE_FIN_STAT"`
	ValidFrom       string `json:"DATEID_VALID_FROM"`
	ValidTo         string `json:"DATEID_VALID_TO"`
	Description     string `json:"DESC_FININ"`
}
