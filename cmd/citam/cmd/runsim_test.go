package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corning-incorporated/citam/agent"
	"github.com/corning-incorporated/citam/config"
)

func TestConvertPurposeRulesMapsKnownNames(t *testing.T) {
	policy := &config.SchedulingPolicy{
		Rules: map[string]config.PurposeRule{
			"office_work": {MinDuration: 10},
			"bogus":       {MinDuration: 5},
		},
	}
	rules := convertPurposeRules(policy)
	assert.Equal(t, 10, rules[agent.PurposeOfficeWork].MinDuration)
	assert.NotContains(t, rules, agent.PurposeRestroomVisit)
	assert.Len(t, rules, 1)
}

func TestConvertPurposeRulesNilPolicyReturnsNil(t *testing.T) {
	assert.Nil(t, convertPurposeRules(nil))
}
