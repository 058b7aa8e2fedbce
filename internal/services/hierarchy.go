package services

import (
	"sort"

	"coa-service/internal/entities"
)

// computeLevels recalculates the derived hierarchy level for every account:
// 0 for roots (parent is a statement sentinel or empty), otherwise one more
// than the parent. Broken parent chains stop counting at the break; the depth
// cap keeps accidental cycles from looping.
func computeLevels(accounts []entities.Account) {
	byCode := make(map[string]*entities.Account, len(accounts))
	for i := range accounts {
		byCode[accounts[i].Code] = &accounts[i]
	}

	var levelOf func(code string, depth int) int
	levelOf = func(code string, depth int) int {
		if depth >= entities.MaxHierarchyDepth {
			return depth
		}
		a, ok := byCode[code]
		if !ok || !a.HasParent() {
			return 0
		}
		if _, ok := byCode[a.ParentCode]; !ok {
			return 0
		}
		return 1 + levelOf(a.ParentCode, depth+1)
	}

	for i := range accounts {
		level := levelOf(accounts[i].Code, 0)
		if level > entities.MaxHierarchyDepth {
			level = entities.MaxHierarchyDepth
		}
		accounts[i].Level = level
	}
}

// childrenOf returns the accounts under parentCode ordered by display order,
// rows without an order last, ties broken by code.
func childrenOf(accounts []entities.Account, parentCode string) []entities.Account {
	children := make([]entities.Account, 0)
	for _, a := range accounts {
		if a.ParentCode == parentCode {
			children = append(children, a)
		}
	}
	sortByOrder(children)
	return children
}

func sortByOrder(accounts []entities.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return lessByOrder(accounts[i], accounts[j])
	})
}

// nextOrderForParent suggests the display order for a new child: 1000 for the
// first child, otherwise the maximum sibling order plus 100.
func nextOrderForParent(accounts []entities.Account, parentCode, businessUnit string) int {
	const (
		firstOrder = 1000
		orderStep  = 100
	)

	maxOrder := 0
	found := false
	for _, a := range accounts {
		if a.ParentCode != parentCode {
			continue
		}
		if businessUnit != "" && a.BusinessUnit != businessUnit {
			continue
		}
		if a.Order == nil {
			continue
		}
		if !found || *a.Order > maxOrder {
			maxOrder = *a.Order
			found = true
		}
	}

	if !found {
		return firstOrder
	}
	return maxOrder + orderStep
}

// isDescendant reports whether candidate sits anywhere under ancestorCode.
func isDescendant(accounts []entities.Account, ancestorCode, candidateCode string) bool {
	byCode := make(map[string]entities.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}

	code := candidateCode
	for depth := 0; depth < entities.MaxHierarchyDepth; depth++ {
		a, ok := byCode[code]
		if !ok || !a.HasParent() {
			return false
		}
		if a.ParentCode == ancestorCode {
			return true
		}
		code = a.ParentCode
	}
	return false
}

// parentCodeSet collects every code referenced as a parent.
func parentCodeSet(accounts []entities.Account) map[string]struct{} {
	parents := make(map[string]struct{})
	for _, a := range accounts {
		if a.ParentCode != "" {
			parents[a.ParentCode] = struct{}{}
		}
	}
	return parents
}
