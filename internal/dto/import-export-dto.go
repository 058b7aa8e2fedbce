package dto

// Import modes.
const (
	ImportModeValidate = "validate"
	ImportModeReplace  = "replace"
	ImportModeAppend   = "append"
	ImportModeUpdate   = "update"
)

// ImportResultDTO reports an excel import run. RowCount counts uploaded rows,
// ResultRows the working set after the mode is applied.
type ImportResultDTO struct {
	Mode       string         `json:"mode"`
	RowCount   int            `json:"row_count"`
	ResultRows int            `json:"result_rows"`
	Applied    bool           `json:"applied"`
	Violations []ViolationDTO `json:"violations"`
}

// TemplateRequestDTO selects the sample rows of a generated template.
type TemplateRequestDTO struct {
	BusinessUnit string   `json:"business_unit"`
	AccountTypes []string `json:"account_types" validate:"omitempty,dive,account_type"`
}
