package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/league/internal/models"
)

// ErrContractViolation marks inputs that no valid group state can produce.
var ErrContractViolation = errors.New("contract violation")

// ContractViolation lists every problem found in a group.
type ContractViolation struct {
	GroupID  string
	Problems []string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("group %q: %s: %s", e.GroupID, ErrContractViolation, strings.Join(e.Problems, "; "))
}

// Is lets errors.Is match ErrContractViolation.
func (e *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

// ValidateGroup checks the referential and sign invariants the engine relies on.
// It returns nil or a *ContractViolation.
func ValidateGroup(g *models.Group) error {
	var problems []string

	members := make(map[string]struct{}, len(g.Members))
	for _, m := range g.Members {
		if m.MemberID == "" {
			problems = append(problems, "member with empty id")
			continue
		}
		if m.MemberID == models.GroupScope || m.MemberID == models.AllMembersSelector {
			problems = append(problems, fmt.Sprintf("member id %q is reserved", m.MemberID))
		}
		if _, dup := members[m.MemberID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate member %q", m.MemberID))
		}
		members[m.MemberID] = struct{}{}
	}

	for _, h := range g.Holdings {
		if _, ok := members[h.MemberID]; !ok {
			problems = append(problems, fmt.Sprintf("holding %q (%s) references unknown member %q", h.HoldingID, h.Symbol, h.MemberID))
		}
		if h.Quantity < 0 {
			problems = append(problems, fmt.Sprintf("holding %q has negative quantity %g", h.HoldingID, h.Quantity))
		}
		if h.AvgBuyPrice < 0 || h.CurrentPrice < 0 {
			problems = append(problems, fmt.Sprintf("holding %q has a negative price", h.HoldingID))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ContractViolation{GroupID: g.GroupID, Problems: problems}
}
