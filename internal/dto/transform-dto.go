package dto

// TransformRequestDTO scopes the enrichment pipeline.
type TransformRequestDTO struct {
	BusinessUnit string `json:"business_unit" validate:"omitempty,min=1"`
}

// SubunitCOARequestDTO requests the subunit cross-join output.
type SubunitCOARequestDTO struct {
	BusinessUnit string `json:"business_unit" validate:"required,min=1"`
}

// CentralMappingRequestDTO requests the central COA mapping output.
type CentralMappingRequestDTO struct {
	BusinessUnit string `json:"business_unit" validate:"required,min=1"`
}

// CountCheckDTO reconciles working-set rows against transform output.
type CountCheckDTO struct {
	InputRows    int      `json:"input_rows"`
	OutputRows   int      `json:"output_rows"`
	DroppedRows  int      `json:"dropped_rows"`
	DroppedCodes []string `json:"dropped_codes"`
}

// TransformResultDTO summarizes a transform run alongside its rows.
type TransformResultDTO struct {
	InputRows   int         `json:"input_rows"`
	OutputRows  int         `json:"output_rows"`
	DroppedRows int         `json:"dropped_rows"`
	Rows        interface{} `json:"rows"`
}
