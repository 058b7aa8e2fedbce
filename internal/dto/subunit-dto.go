package dto

import "coa-service/internal/entities"

// BusinessSubunitDTO is one subunit reference row.
type BusinessSubunitDTO struct {
	PK           string `json:"pk_business_subunit"`
	BusinessUnit string `json:"business_unit"`
	Name         string `json:"name"`
}

func SubunitToDTO(s entities.BusinessSubunit) BusinessSubunitDTO {
	return BusinessSubunitDTO{PK: s.PK, BusinessUnit: s.BusinessUnit, Name: s.Name}
}

func SubunitsToDTO(subunits []entities.BusinessSubunit) []BusinessSubunitDTO {
	out := make([]BusinessSubunitDTO, 0, len(subunits))
	for _, s := range subunits {
		out = append(out, SubunitToDTO(s))
	}
	return out
}
