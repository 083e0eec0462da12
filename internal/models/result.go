package models

import (
	"encoding/json"
	"fmt"
)

// Tag classifies a single-leg option position that was not absorbed into a
// multi-leg strategy.
type Tag string

// Single-leg classification tags.
const (
	TagNaked                  Tag = "Naked"
	TagCoveredCall            Tag = "Covered Call"
	TagPartiallyCoveredCall   Tag = "Partially Covered Call"
	TagProtectivePut          Tag = "Protective Put"
	TagPartiallyProtectivePut Tag = "Partially Protective Put"
	TagLongCall               Tag = "Long Call"
	TagShortPut               Tag = "Short Put"
	// TagInvalid flags a degenerate position with zero contract exposure.
	TagInvalid Tag = "Invalid"
)

// Valid returns true if the Tag is one of the defined constants.
func (t Tag) Valid() bool {
	switch t {
	case TagNaked, TagCoveredCall, TagPartiallyCoveredCall, TagProtectivePut,
		TagPartiallyProtectivePut, TagLongCall, TagShortPut, TagInvalid:
		return true
	default:
		return false
	}
}

// StrategyName identifies a recognized multi-leg option strategy.
type StrategyName string

// Recognized two-leg strategies.
const (
	StrategyLongStraddle       StrategyName = "Long Straddle"
	StrategyShortStraddle      StrategyName = "Short Straddle"
	StrategyLongStrangle       StrategyName = "Long Strangle"
	StrategyShortStrangle      StrategyName = "Short Strangle"
	StrategyCallVerticalSpread StrategyName = "Call Vertical Spread"
	StrategyPutVerticalSpread  StrategyName = "Put Vertical Spread"
)

// Valid returns true if the StrategyName is one of the defined constants.
func (n StrategyName) Valid() bool {
	switch n {
	case StrategyLongStraddle, StrategyShortStraddle, StrategyLongStrangle,
		StrategyShortStrangle, StrategyCallVerticalSpread, StrategyPutVerticalSpread:
		return true
	default:
		return false
	}
}

// TaggedOptionPosition is the single-leg screening result: the option's
// identifying fields plus its classification tag and equity coverage.
type TaggedOptionPosition struct {
	Symbol          string     `json:"symbol"`
	OptionType      OptionType `json:"option_type"`
	Side            OptionSide `json:"position"`
	Strike          float64    `json:"strike"`
	Expiry          Date       `json:"expiry"`
	Tag             Tag        `json:"tag"`
	CoveragePercent float64    `json:"coverage_percent"`
}

// OptionStrategy is the multi-leg screening result: a recognized strategy
// with its constituent legs and net premium. Net premium is positive when
// the holder paid on balance and negative when premium was received.
type OptionStrategy struct {
	StrategyID             string           `json:"strategy_id"`
	StrategyName           StrategyName     `json:"strategy_name"`
	UnderlyingSymbol       string           `json:"underlying_symbol"`
	ExpiryDate             Date             `json:"expiry_date"`
	Legs                   []OptionPosition `json:"legs"`
	NetPremiumPaidReceived float64          `json:"net_premium_paid_received"`
}

// ScreenResult is one element of the screening output, either an
// OptionStrategy or a TaggedOptionPosition. JSON consumers discriminate
// elements structurally: strategies carry a "legs" collection, tagged
// positions carry a "tag" field.
type ScreenResult interface {
	screenResult()
}

func (OptionStrategy) screenResult()       {}
func (TaggedOptionPosition) screenResult() {}

// UnmarshalScreenResults decodes a mixed screening result list, dispatching
// each element on the presence of a "legs" collection.
func UnmarshalScreenResults(data []byte) ([]ScreenResult, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding result list: %w", err)
	}

	results := make([]ScreenResult, 0, len(raws))
	for i, raw := range raws {
		var probe struct {
			Legs json.RawMessage `json:"legs"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("results[%d]: %w", i, err)
		}

		if len(probe.Legs) > 0 {
			var s OptionStrategy
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("results[%d]: decoding strategy: %w", i, err)
			}
			results = append(results, s)
			continue
		}

		var t TaggedOptionPosition
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("results[%d]: decoding tagged position: %w", i, err)
		}
		results = append(results, t)
	}
	return results, nil
}
