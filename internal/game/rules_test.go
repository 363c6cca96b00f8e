package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHouseRulesAreValid(t *testing.T) {
	rules := DefaultHouseRules()
	require.NoError(t, rules.Validate())
	assert.Equal(t, DrawNone, rules.Draw)
	assert.Equal(t, StackingNone, rules.DrawCardStacking)
	assert.Equal(t, EndScoreAfterFirstWin, rules.EndCondition)
	assert.False(t, rules.Has(RuleInterjections))
}

func TestParseRulesFromLobbyJSON(t *testing.T) {
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"draw": "punishmentDraw",
		"drawCardStacking": "flat",
		"generalRules": ["interjections", "skipCounter", "interjections"]
	}`), &raw))

	current := DefaultHouseRules()
	rules, err := ParseRules(raw, current)
	require.NoError(t, err)

	assert.Equal(t, DrawPunishment, rules.Draw)
	assert.Equal(t, StackingFlat, rules.DrawCardStacking)
	assert.Equal(t, EndScoreAfterFirstWin, rules.EndCondition, "unset keys keep their value")
	assert.Equal(t, []GeneralRule{RuleInterjections, RuleSkipCounter}, rules.GeneralRules, "duplicates collapse")
	assert.True(t, rules.Has(RuleSkipCounter))
	assert.Empty(t, current.GeneralRules, "the current rules are not modified")
}

func TestParseRulesRejectsBadInput(t *testing.T) {
	_, err := ParseRules(map[string]interface{}{"draw": "sometimes"}, DefaultHouseRules())
	assert.Error(t, err)

	_, err = ParseRules(map[string]interface{}{"endCondition": 3}, DefaultHouseRules())
	assert.Error(t, err)

	_, err = ParseRules(map[string]interface{}{"generalRules": []interface{}{"interjections", 1}}, DefaultHouseRules())
	assert.Error(t, err)

	_, err = ParseRules(map[string]interface{}{"generalRules": []string{"sevenSwap"}}, DefaultHouseRules())
	assert.Error(t, err)

	_, err = ParseRules(map[string]interface{}{"generalRules": "interjections"}, DefaultHouseRules())
	assert.Error(t, err)
}

func TestParseRulesIgnoresNil(t *testing.T) {
	rules, err := ParseRules(map[string]interface{}{"draw": nil, "generalRules": nil}, DefaultHouseRules())
	require.NoError(t, err)
	assert.Equal(t, DrawNone, rules.Draw)
	assert.Empty(t, rules.GeneralRules)
}

func TestValidateRejectsDuplicateGeneralRules(t *testing.T) {
	rules := withRules(DrawNone, StackingNone, EndLastManStanding, RuleRedZeroOfDeath, RuleRedZeroOfDeath)
	assert.Error(t, rules.Validate())
}
