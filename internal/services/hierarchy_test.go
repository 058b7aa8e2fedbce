package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coa-service/internal/entities"
)

func TestComputeLevels(t *testing.T) {
	accounts := sampleAccounts()
	computeLevels(accounts)

	levels := make(map[string]int)
	for _, a := range accounts {
		levels[a.Code] = a.Level
	}

	assert.Equal(t, 0, levels["A1"])
	assert.Equal(t, 1, levels["A11"])
	assert.Equal(t, 1, levels["A12"])
	assert.Equal(t, 0, levels["P1"])
	assert.Equal(t, 0, levels["R1"])
}

func TestComputeLevelsBrokenChain(t *testing.T) {
	accounts := []entities.Account{
		{Code: "X1", ParentCode: "MISSING"},
		{Code: "X2", ParentCode: "X1"},
	}
	computeLevels(accounts)

	assert.Equal(t, 0, accounts[0].Level)
	assert.Equal(t, 1, accounts[1].Level)
}

func TestComputeLevelsCycleCapped(t *testing.T) {
	accounts := []entities.Account{
		{Code: "L1", ParentCode: "L2"},
		{Code: "L2", ParentCode: "L1"},
	}
	computeLevels(accounts)

	for _, a := range accounts {
		assert.LessOrEqual(t, a.Level, entities.MaxHierarchyDepth)
	}
}

func TestChildrenOfOrdering(t *testing.T) {
	accounts := []entities.Account{
		{Code: "B", ParentCode: "ROOT", Order: intPtr(200)},
		{Code: "A", ParentCode: "ROOT", Order: intPtr(100)},
		{Code: "C", ParentCode: "ROOT"},
	}

	children := childrenOf(accounts, "ROOT")

	assert.Equal(t, []string{"A", "B", "C"}, []string{children[0].Code, children[1].Code, children[2].Code})
}

func TestNextOrderForParent(t *testing.T) {
	accounts := sampleAccounts()

	assert.Equal(t, 1200, nextOrderForParent(accounts, "A1", "001"))
	assert.Equal(t, 1000, nextOrderForParent(accounts, "A11", "001"))
	assert.Equal(t, 2100, nextOrderForParent(accounts, "BS", "001"))
}

func TestIsDescendant(t *testing.T) {
	accounts := sampleAccounts()

	assert.True(t, isDescendant(accounts, "A1", "A11"))
	assert.False(t, isDescendant(accounts, "A11", "A1"))
	assert.False(t, isDescendant(accounts, "A1", "P1"))
}
