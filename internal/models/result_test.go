package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnmarshalScreenResultsMixed(t *testing.T) {
	expiry := NewDate(2026, time.June, 19)
	original := []ScreenResult{
		OptionStrategy{
			StrategyID:       "11111111-2222-3333-4444-555555555555",
			StrategyName:     StrategyLongStraddle,
			UnderlyingSymbol: "SPY",
			ExpiryDate:       expiry,
			Legs: []OptionPosition{
				{Type: TypeOption, Symbol: "SPY", OptionType: OptionCall, Strike: 400, Expiry: expiry, Side: SideLong, Contracts: 1, PriceAtPurchase: 1.0, ISIN: "SPY-LC-400", InstrumentCurrency: CurrencyUSD},
				{Type: TypeOption, Symbol: "SPY", OptionType: OptionPut, Strike: 400, Expiry: expiry, Side: SideLong, Contracts: 1, PriceAtPurchase: 1.0, ISIN: "SPY-LP-400", InstrumentCurrency: CurrencyUSD},
			},
			NetPremiumPaidReceived: 200,
		},
		TaggedOptionPosition{
			Symbol:          "AAPL",
			OptionType:      OptionCall,
			Side:            SideShort,
			Strike:          180,
			Expiry:          expiry,
			Tag:             TagCoveredCall,
			CoveragePercent: 100,
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	results, err := UnmarshalScreenResults(data)
	if err != nil {
		t.Fatalf("UnmarshalScreenResults() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, expected 2", len(results))
	}

	strategy, ok := results[0].(OptionStrategy)
	if !ok {
		t.Fatalf("results[0] is %T, expected OptionStrategy", results[0])
	}
	if strategy.StrategyName != StrategyLongStraddle {
		t.Errorf("strategy name = %q, expected Long Straddle", strategy.StrategyName)
	}
	if len(strategy.Legs) != 2 {
		t.Errorf("len(legs) = %d, expected 2", len(strategy.Legs))
	}
	if strategy.NetPremiumPaidReceived != 200 {
		t.Errorf("net premium = %v, expected 200", strategy.NetPremiumPaidReceived)
	}

	tagged, ok := results[1].(TaggedOptionPosition)
	if !ok {
		t.Fatalf("results[1] is %T, expected TaggedOptionPosition", results[1])
	}
	if tagged.Tag != TagCoveredCall {
		t.Errorf("tag = %q, expected Covered Call", tagged.Tag)
	}
	if tagged.CoveragePercent != 100 {
		t.Errorf("coverage = %v, expected 100", tagged.CoveragePercent)
	}
}

func TestUnmarshalScreenResultsEmpty(t *testing.T) {
	results, err := UnmarshalScreenResults([]byte(`[]`))
	if err != nil {
		t.Fatalf("UnmarshalScreenResults() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, expected 0", len(results))
	}
}

func TestTagValid(t *testing.T) {
	valid := []Tag{
		TagNaked, TagCoveredCall, TagPartiallyCoveredCall, TagProtectivePut,
		TagPartiallyProtectivePut, TagLongCall, TagShortPut, TagInvalid,
	}
	for _, tag := range valid {
		if !tag.Valid() {
			t.Errorf("Tag(%q).Valid() = false, expected true", tag)
		}
	}
	if Tag("Married Put").Valid() {
		t.Error(`Tag("Married Put").Valid() = true, expected false`)
	}
}

func TestStrategyNameValid(t *testing.T) {
	valid := []StrategyName{
		StrategyLongStraddle, StrategyShortStraddle, StrategyLongStrangle,
		StrategyShortStrangle, StrategyCallVerticalSpread, StrategyPutVerticalSpread,
	}
	for _, name := range valid {
		if !name.Valid() {
			t.Errorf("StrategyName(%q).Valid() = false, expected true", name)
		}
	}
	if StrategyName("Iron Condor").Valid() {
		t.Error(`StrategyName("Iron Condor").Valid() = true, expected false`)
	}
}
