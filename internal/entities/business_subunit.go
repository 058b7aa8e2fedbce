package entities

// BusinessSubunit is a row of the DC_BUSINESS_SUBUNIT reference table.
type BusinessSubunit struct {
	PK           string `json:"PK_BUSINESS_SUBUNIT"`
	BusinessUnit string `json:"FK_BUSINESS_UNIT"`
	Name         string `json:"NAME_BUSINESS_SUBUNIT"`
}
