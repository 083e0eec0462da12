package models

import (
	"encoding/json"
	"fmt"
)

// RiskProfile is the client's risk appetite classification.
type RiskProfile string

// Risk profiles.
const (
	RiskConservative RiskProfile = "Conservative"
	RiskModerate     RiskProfile = "Moderate"
	RiskAggressive   RiskProfile = "Aggressive"
)

// Valid returns true if the RiskProfile is one of the defined constants.
func (r RiskProfile) Valid() bool {
	switch r {
	case RiskConservative, RiskModerate, RiskAggressive:
		return true
	default:
		return false
	}
}

// Portfolio is the inbound screening request: client metadata plus a
// heterogeneous list of positions across all supported asset classes.
type Portfolio struct {
	PortfolioID            string      `json:"portfolio_id"`
	PortfolioCurrency      ISOCurrency `json:"portfolio_currency"`
	InvestmentHorizonYears int         `json:"investment_horizon_years"`
	RiskProfile            RiskProfile `json:"risk_profile"`
	ProductKnowledge       []string    `json:"product_knowledge"`
	Positions              []Position  `json:"positions"`
}

// UnmarshalJSON decodes the portfolio, dispatching each element of the
// position list on its "type" discriminator.
func (p *Portfolio) UnmarshalJSON(data []byte) error {
	type portfolioAlias Portfolio
	aux := struct {
		Positions []json.RawMessage `json:"positions"`
		*portfolioAlias
	}{portfolioAlias: (*portfolioAlias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Positions = make([]Position, 0, len(aux.Positions))
	for i, raw := range aux.Positions {
		pos, err := UnmarshalPosition(raw)
		if err != nil {
			return fmt.Errorf("positions[%d]: %w", i, err)
		}
		p.Positions = append(p.Positions, pos)
	}
	return nil
}

// Validate checks the portfolio envelope and every position it holds.
// It also enforces that option ISINs are unique within the portfolio,
// which the screener relies on to track consumed legs.
func (p *Portfolio) Validate() error {
	if p.PortfolioID == "" {
		return fmt.Errorf("portfolio_id is required")
	}
	if !p.PortfolioCurrency.Valid() {
		return fmt.Errorf("portfolio %s: invalid portfolio_currency %q", p.PortfolioID, string(p.PortfolioCurrency))
	}
	if p.InvestmentHorizonYears < 0 {
		return fmt.Errorf("portfolio %s: investment_horizon_years must be >= 0 (got %d)", p.PortfolioID, p.InvestmentHorizonYears)
	}
	if !p.RiskProfile.Valid() {
		return fmt.Errorf("portfolio %s: risk_profile must be one of Conservative, Moderate, Aggressive (got %q)", p.PortfolioID, string(p.RiskProfile))
	}

	seen := make(map[string]struct{})
	for i, pos := range p.Positions {
		if pos == nil {
			return fmt.Errorf("portfolio %s: positions[%d] is null", p.PortfolioID, i)
		}
		if err := pos.Validate(); err != nil {
			return fmt.Errorf("portfolio %s: positions[%d]: %w", p.PortfolioID, i, err)
		}
		if opt, ok := pos.(*OptionPosition); ok {
			if _, dup := seen[opt.ISIN]; dup {
				return fmt.Errorf("portfolio %s: positions[%d]: duplicate option isin %q", p.PortfolioID, i, opt.ISIN)
			}
			seen[opt.ISIN] = struct{}{}
		}
	}
	return nil
}

// OptionPositions returns the option positions in portfolio order.
func (p *Portfolio) OptionPositions() []*OptionPosition {
	var opts []*OptionPosition
	for _, pos := range p.Positions {
		if opt, ok := pos.(*OptionPosition); ok {
			opts = append(opts, opt)
		}
	}
	return opts
}

// EquityShares returns the share count held per underlying symbol. When a
// symbol appears in several equity positions the quantities accumulate.
func (p *Portfolio) EquityShares() map[string]int {
	shares := make(map[string]int)
	for _, pos := range p.Positions {
		if eq, ok := pos.(*EquityPosition); ok {
			shares[eq.Symbol] += eq.Quantity
		}
	}
	return shares
}
