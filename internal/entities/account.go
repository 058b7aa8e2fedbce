package entities

// Account types as used in the platform table.
const (
	AccountTypeAsset     = "A"
	AccountTypeLiability = "P"
	AccountTypeRevenue   = "R"
	AccountTypeCost      = "C"
)

// Statement types double as the parent sentinels for root accounts.
const (
	StatementBalanceSheet = "BS"
	StatementProfitLoss   = "PL"
)

const DefaultBusinessUnit = "DEFAULT"

// Account is one Chart-of-Accounts row. JSON tags mirror the platform table
// headers; the working set round-trips through Redis and CSV with these names.
type Account struct {
	BusinessUnit  string `json:"FK_BUSINESS_UNIT"`
	Order         *int   `json:"NUM_FIN_STAT_ORDER"`
	Code          string `json:"CODE_FIN_STAT"`
	Name          string `json:"NAME_FIN_STAT"`
	ParentCode    string `json:"CODE_PARENT_FIN_STAT"`
	AccountType   string `json:"TYPE_ACCOUNT"`
	StatementType string `json:"TYPE_FIN_STATEMENT"`
	NameEng       string `json:"NAME_FIN_STAT_ENG"`
	// Optional mapping onto the central COA, used by the transformation output.
	CentralCode string `json:"FININ_CODE_FIN_STAT,omitempty"`
	// Derived, recomputed on load and after every edit; never persisted to master.
	Level int `json:"HIERARCHY_LEVEL"`
}

// AccountColumns is the canonical column order for CSV and Excel surfaces.
// HIERARCHY_LEVEL is deliberately absent.
var AccountColumns = []string{
	"FK_BUSINESS_UNIT",
	"NUM_FIN_STAT_ORDER",
	"CODE_FIN_STAT",
	"NAME_FIN_STAT",
	"CODE_PARENT_FIN_STAT",
	"TYPE_ACCOUNT",
	"TYPE_FIN_STATEMENT",
	"NAME_FIN_STAT_ENG",
	"FININ_CODE_FIN_STAT",
}

// IsRoot reports whether the account hangs directly off a statement sentinel.
func (a Account) IsRoot() bool {
	return a.ParentCode == StatementBalanceSheet || a.ParentCode == StatementProfitLoss
}

// HasParent reports whether the account references another account (not a sentinel).
func (a Account) HasParent() bool {
	return a.ParentCode != "" && !a.IsRoot()
}
