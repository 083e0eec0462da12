package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

const mixedPortfolioJSON = `{
	"portfolio_id": "PORT123456",
	"portfolio_currency": "USD",
	"investment_horizon_years": 5,
	"risk_profile": "Moderate",
	"product_knowledge": ["Equity", "Option", "Bond"],
	"positions": [
		{
			"type": "Equity",
			"symbol": "AAPL",
			"quantity": 1000,
			"cio_rating": "Hold",
			"average_cost_price": 150.0,
			"instrument_currency": "USD",
			"market_value": 170000.0,
			"isin": "US0378331005"
		},
		{
			"type": "Option",
			"symbol": "AAPL",
			"option_type": "Call",
			"strike": 170.0,
			"expiry": "2026-12-31",
			"position": "Short",
			"contracts": 5,
			"price_at_purchase": 2.0,
			"current_price": 2.5,
			"market_value": 1250.0,
			"isin": "OPT-AAPL-C-170",
			"instrument_currency": "USD"
		},
		{
			"type": "Bond",
			"symbol": "US10Y",
			"issuer": "US Treasury",
			"face_value": 1000.0,
			"coupon_rate": 2.5,
			"maturity_date": "2030-12-31",
			"quantity": 10,
			"average_cost_price": 98.5,
			"instrument_currency": "USD",
			"market_value": 10234.5,
			"isin": "US9128285M81",
			"coupon_frequency": "Semi-Annual",
			"day_count_convention": "Actual/360"
		},
		{
			"type": "FXSpot",
			"base_currency": "EUR",
			"quote_currency": "USD",
			"notional": 1000000.0,
			"side": "Buy",
			"trade_date": "2025-07-01",
			"settlement_date": "2025-07-03",
			"spot_rate": 1.105,
			"market_value": 1105000.0,
			"valuation_date": "2025-07-01"
		},
		{
			"type": "FXForward",
			"base_currency": "EUR",
			"quote_currency": "USD",
			"notional": 1000000.0,
			"side": "Sell",
			"trade_date": "2025-07-01",
			"settlement_date": "2025-09-01",
			"forward_rate": 1.11,
			"market_value": -5000.0,
			"valuation_date": "2025-07-04",
			"instrument_currency": "USD"
		},
		{
			"type": "FXSwap",
			"base_currency": "EUR",
			"quote_currency": "USD",
			"notional": 1000000.0,
			"side": "Buy",
			"trade_date": "2025-07-01",
			"near_leg_settlement_date": "2025-07-03",
			"far_leg_settlement_date": "2025-08-01",
			"near_leg_rate": 1.105,
			"far_leg_rate": 1.11,
			"market_value": 10000.0,
			"valuation_date": "2025-07-04",
			"instrument_currency": "USD"
		},
		{
			"type": "TimeDeposit",
			"currency": "USD",
			"principal": 100000.0,
			"interest_rate": 3.5,
			"start_date": "2025-01-01",
			"maturity_date": "2026-01-01",
			"interest_type": "Simple",
			"compounding_frequency": "None",
			"accrued_interest": 1500.0,
			"market_value": 101500.0,
			"valuation_date": "2025-07-04",
			"instrument_currency": "USD"
		},
		{
			"type": "Fund",
			"fund_name": "iShares MSCI World ETF",
			"symbol": "URTH",
			"fund_type": "ETF",
			"quantity": 150.5,
			"nav_per_unit": 105.22,
			"average_cost_price": 100.0,
			"market_value": 15804.61,
			"isin": "IE00B6R51Z18",
			"instrument_currency": "USD"
		}
	]
}`

func TestPortfolioUnmarshalDispatch(t *testing.T) {
	var p Portfolio
	if err := json.Unmarshal([]byte(mixedPortfolioJSON), &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if p.PortfolioID != "PORT123456" {
		t.Errorf("PortfolioID = %q, expected PORT123456", p.PortfolioID)
	}
	if p.PortfolioCurrency != CurrencyUSD {
		t.Errorf("PortfolioCurrency = %q, expected USD", p.PortfolioCurrency)
	}
	if len(p.Positions) != 8 {
		t.Fatalf("len(Positions) = %d, expected 8", len(p.Positions))
	}

	expectedTypes := []PositionType{
		TypeEquity, TypeOption, TypeBond, TypeFXSpot,
		TypeFXForward, TypeFXSwap, TypeTimeDeposit, TypeFund,
	}
	for i, want := range expectedTypes {
		if got := p.Positions[i].PositionType(); got != want {
			t.Errorf("positions[%d] type = %q, expected %q", i, got, want)
		}
	}

	opt, ok := p.Positions[1].(*OptionPosition)
	if !ok {
		t.Fatalf("positions[1] is %T, expected *OptionPosition", p.Positions[1])
	}
	if opt.Side != SideShort {
		t.Errorf("option side = %q, expected Short", opt.Side)
	}
	if opt.Expiry != NewDate(2026, time.December, 31) {
		t.Errorf("option expiry = %v, expected 2026-12-31", opt.Expiry)
	}
	if got := opt.ShareExposure(); got != 500 {
		t.Errorf("ShareExposure() = %v, expected 500", got)
	}
	if got := opt.GrossPremium(); got != 1000 {
		t.Errorf("GrossPremium() = %v, expected 1000", got)
	}

	fwd, ok := p.Positions[4].(*FXForwardPosition)
	if !ok {
		t.Fatalf("positions[4] is %T, expected *FXForwardPosition", p.Positions[4])
	}
	if fwd.MarketValue != -5000.0 {
		t.Errorf("forward market_value = %v, expected -5000", fwd.MarketValue)
	}

	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error on valid portfolio: %v", err)
	}
}

func TestPortfolioUnmarshalUnknownType(t *testing.T) {
	payload := `{
		"portfolio_id": "P1",
		"portfolio_currency": "USD",
		"investment_horizon_years": 1,
		"risk_profile": "Moderate",
		"product_knowledge": [],
		"positions": [{"type": "Crypto", "symbol": "BTC"}]
	}`

	var p Portfolio
	err := json.Unmarshal([]byte(payload), &p)
	if err == nil {
		t.Fatal("Unmarshal() expected error for unknown position type, got nil")
	}
	if !strings.Contains(err.Error(), "unknown position type") {
		t.Errorf("error = %v, expected mention of unknown position type", err)
	}
}

func TestPortfolioMarshalRoundTrip(t *testing.T) {
	var p Portfolio
	if err := json.Unmarshal([]byte(mixedPortfolioJSON), &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	data, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var back Portfolio
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal(Marshal()) error: %v", err)
	}
	if len(back.Positions) != len(p.Positions) {
		t.Fatalf("round trip position count = %d, expected %d", len(back.Positions), len(p.Positions))
	}
	for i := range back.Positions {
		if back.Positions[i].PositionType() != p.Positions[i].PositionType() {
			t.Errorf("positions[%d] type changed across round trip", i)
		}
	}
}

func TestPortfolioValidate(t *testing.T) {
	valid := func() *Portfolio {
		var p Portfolio
		if err := json.Unmarshal([]byte(mixedPortfolioJSON), &p); err != nil {
			t.Fatalf("Unmarshal() error: %v", err)
		}
		return &p
	}

	tests := []struct {
		name    string
		mutate  func(*Portfolio)
		wantErr string
	}{
		{
			name:    "missing portfolio id",
			mutate:  func(p *Portfolio) { p.PortfolioID = "" },
			wantErr: "portfolio_id is required",
		},
		{
			name:    "bad currency",
			mutate:  func(p *Portfolio) { p.PortfolioCurrency = "ZZZ" },
			wantErr: "portfolio_currency",
		},
		{
			name:    "negative horizon",
			mutate:  func(p *Portfolio) { p.InvestmentHorizonYears = -1 },
			wantErr: "investment_horizon_years",
		},
		{
			name:    "bad risk profile",
			mutate:  func(p *Portfolio) { p.RiskProfile = "Reckless" },
			wantErr: "risk_profile",
		},
		{
			name: "negative equity quantity",
			mutate: func(p *Portfolio) {
				p.Positions[0].(*EquityPosition).Quantity = -10
			},
			wantErr: "quantity must be >= 0",
		},
		{
			name: "bad option side",
			mutate: func(p *Portfolio) {
				p.Positions[1].(*OptionPosition).Side = "Hedged"
			},
			wantErr: "position must be Long or Short",
		},
		{
			name: "negative strike",
			mutate: func(p *Portfolio) {
				p.Positions[1].(*OptionPosition).Strike = -170
			},
			wantErr: "strike must be >= 0",
		},
		{
			name: "bad coupon frequency",
			mutate: func(p *Portfolio) {
				p.Positions[2].(*BondPosition).CouponFrequency = "Weekly"
			},
			wantErr: "coupon_frequency",
		},
		{
			name: "bad fund type",
			mutate: func(p *Portfolio) {
				p.Positions[7].(*FundPosition).FundType = "SPAC"
			},
			wantErr: "fund_type",
		},
		{
			name: "duplicate option isin",
			mutate: func(p *Portfolio) {
				dup := *p.Positions[1].(*OptionPosition)
				p.Positions = append(p.Positions, &dup)
			},
			wantErr: "duplicate option isin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestEquitySharesAccumulates(t *testing.T) {
	p := Portfolio{
		PortfolioID:       "P1",
		PortfolioCurrency: CurrencyUSD,
		RiskProfile:       RiskModerate,
		Positions: []Position{
			&EquityPosition{Type: TypeEquity, Symbol: "AAPL", Quantity: 200, CIORating: RatingBuy, InstrumentCurrency: CurrencyUSD, ISIN: "US0378331005"},
			&EquityPosition{Type: TypeEquity, Symbol: "AAPL", Quantity: 300, CIORating: RatingBuy, InstrumentCurrency: CurrencyUSD, ISIN: "US0378331005"},
			&EquityPosition{Type: TypeEquity, Symbol: "MSFT", Quantity: 50, CIORating: RatingHold, InstrumentCurrency: CurrencyUSD, ISIN: "US5949181045"},
		},
	}

	shares := p.EquityShares()
	if shares["AAPL"] != 500 {
		t.Errorf("EquityShares()[AAPL] = %d, expected 500", shares["AAPL"])
	}
	if shares["MSFT"] != 50 {
		t.Errorf("EquityShares()[MSFT] = %d, expected 50", shares["MSFT"])
	}
	if _, ok := shares["GOOG"]; ok {
		t.Error("EquityShares() contains GOOG, expected absent")
	}
}

func TestTimeDepositDefaults(t *testing.T) {
	td := &TimeDepositPosition{
		Type:               TypeTimeDeposit,
		Currency:           CurrencyUSD,
		Principal:          1000,
		InstrumentCurrency: CurrencyUSD,
	}
	if err := td.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if td.InterestType != InterestSimple {
		t.Errorf("InterestType defaulted to %q, expected Simple", td.InterestType)
	}
	if td.CompoundingFrequency != CompoundingNone {
		t.Errorf("CompoundingFrequency defaulted to %q, expected None", td.CompoundingFrequency)
	}
}
