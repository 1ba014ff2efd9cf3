package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/league/internal/models"
)

func TestValidateGroup_Valid(t *testing.T) {
	g := threeMemberGroup()
	g.Holdings = []models.Holding{holding("A", "alice", 1, 1, 1)}
	assert.NoError(t, ValidateGroup(g))
}

func TestValidateGroup_Problems(t *testing.T) {
	tests := []struct {
		name    string
		group   *models.Group
		problem string
	}{
		{
			name: "duplicate member",
			group: &models.Group{Members: []models.Member{
				{MemberID: "a"}, {MemberID: "a"},
			}},
			problem: "duplicate member",
		},
		{
			name:    "empty member id",
			group:   &models.Group{Members: []models.Member{{MemberID: ""}}},
			problem: "empty id",
		},
		{
			name:    "reserved member id",
			group:   &models.Group{Members: []models.Member{{MemberID: models.GroupScope}}},
			problem: "reserved",
		},
		{
			name:    "member id clashes with chart selector",
			group:   &models.Group{Members: []models.Member{{MemberID: "members"}}},
			problem: `member id "members" is reserved`,
		},
		{
			name: "negative quantity",
			group: &models.Group{
				Members:  []models.Member{{MemberID: "a"}},
				Holdings: []models.Holding{holding("H", "a", -1, 1, 1)},
			},
			problem: "negative quantity",
		},
		{
			name: "negative price",
			group: &models.Group{
				Members:  []models.Member{{MemberID: "a"}},
				Holdings: []models.Holding{holding("H", "a", 1, 1, -3)},
			},
			problem: "negative price",
		},
		{
			name: "unknown owner",
			group: &models.Group{
				Members:  []models.Member{{MemberID: "a"}},
				Holdings: []models.Holding{holding("H", "b", 1, 1, 1)},
			},
			problem: "unknown member",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroup(tt.group)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrContractViolation))
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}
