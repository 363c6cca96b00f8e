// internal/game/rules.go
package game

import (
	"fmt"
)

// DrawRule decides what happens when a player declines to play the card they just drew.
type DrawRule string

// StackingRule decides whether and how draw-2/draw-4 penalties can be passed on.
type StackingRule string

// EndCondition decides when the game ends and how players are ranked.
type EndCondition string

// GeneralRule is an independent toggle.
type GeneralRule string

const (
	DrawNone       DrawRule = "none"
	DrawPunishment DrawRule = "punishmentDraw"
	DrawUntilPlay  DrawRule = "drawUntilPlay"
)

const (
	StackingNone        StackingRule = "none"
	StackingFlat        StackingRule = "flat"
	StackingProgressive StackingRule = "progressive"
	StackingAll         StackingRule = "all"
)

const (
	EndLastManStanding         EndCondition = "lastManStanding"
	EndScoreAfterFirstWin      EndCondition = "scoreAfterFirstWin"
	EndScoreAfterFirstWinMercy EndCondition = "scoreAfterFirstWinMercy"
)

const (
	RuleInterjections   GeneralRule = "interjections"
	RuleRestrictedDraw4 GeneralRule = "restrictedDraw4"
	RuleRedZeroOfDeath  GeneralRule = "redZeroOfDeath"
	RuleReverseCounter  GeneralRule = "reverseCounter"
	RuleSkipCounter     GeneralRule = "skipCounter"
)

// MercyHandLimit is the hand size at which a player is eliminated under the mercy end condition.
const MercyHandLimit = 25

// HouseRules is the rule configuration of one game. It is copied from the lobby at creation
// and does not change during play.
type HouseRules struct {
	Draw             DrawRule      `json:"draw"`
	DrawCardStacking StackingRule  `json:"drawCardStacking"`
	EndCondition     EndCondition  `json:"endCondition"`
	GeneralRules     []GeneralRule `json:"generalRules"`
}

// DefaultHouseRules is the plain rule set: no stacking, no draw punishment, score after first win.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		Draw:             DrawNone,
		DrawCardStacking: StackingNone,
		EndCondition:     EndScoreAfterFirstWin,
		GeneralRules:     []GeneralRule{},
	}
}

// Has reports whether a general rule is active.
func (rules HouseRules) Has(r GeneralRule) bool {
	for _, gr := range rules.GeneralRules {
		if gr == r {
			return true
		}
	}
	return false
}

// Validate checks every field holds a known variant and general rules contain no duplicates.
func (rules HouseRules) Validate() error {
	switch rules.Draw {
	case DrawNone, DrawPunishment, DrawUntilPlay:
	default:
		return fmt.Errorf("unknown draw rule %q", rules.Draw)
	}
	switch rules.DrawCardStacking {
	case StackingNone, StackingFlat, StackingProgressive, StackingAll:
	default:
		return fmt.Errorf("unknown drawCardStacking rule %q", rules.DrawCardStacking)
	}
	switch rules.EndCondition {
	case EndLastManStanding, EndScoreAfterFirstWin, EndScoreAfterFirstWinMercy:
	default:
		return fmt.Errorf("unknown endCondition %q", rules.EndCondition)
	}
	seen := make(map[GeneralRule]bool, len(rules.GeneralRules))
	for _, r := range rules.GeneralRules {
		switch r {
		case RuleInterjections, RuleRestrictedDraw4, RuleRedZeroOfDeath, RuleReverseCounter, RuleSkipCounter:
		default:
			return fmt.Errorf("unknown general rule %q", r)
		}
		if seen[r] {
			return fmt.Errorf("duplicate general rule %q", r)
		}
		seen[r] = true
	}
	return nil
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
// General rules are replaced as a whole and deduplicated.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignString := func(key string, set func(string)) error {
		if val, exists := newRules[key]; exists && val != nil {
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			set(s)
		}
		return nil
	}

	if err := assignString("draw", func(s string) { rules.Draw = DrawRule(s) }); err != nil {
		return err
	}
	if err := assignString("drawCardStacking", func(s string) { rules.DrawCardStacking = StackingRule(s) }); err != nil {
		return err
	}
	if err := assignString("endCondition", func(s string) { rules.EndCondition = EndCondition(s) }); err != nil {
		return err
	}

	if val, exists := newRules["generalRules"]; exists && val != nil {
		var names []string
		switch list := val.(type) {
		case []interface{}:
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("invalid type in generalRules")
				}
				names = append(names, s)
			}
		case []string:
			names = list
		default:
			return fmt.Errorf("invalid type for generalRules")
		}
		general := make([]GeneralRule, 0, len(names))
		seen := make(map[GeneralRule]bool, len(names))
		for _, n := range names {
			r := GeneralRule(n)
			if seen[r] {
				continue
			}
			seen[r] = true
			general = append(general, r)
		}
		rules.GeneralRules = general
	}

	return rules.Validate()
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	houseRules.GeneralRules = append([]GeneralRule(nil), current.GeneralRules...)
	err := houseRules.Update(rules)
	return houseRules, err
}
