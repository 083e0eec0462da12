// Package models defines the portfolio data contracts for the screening
// engine: the discriminated position union received from clients and the
// strategy/tagging records returned to them.
package models

import (
	"encoding/json"
	"fmt"
)

const sharesPerContract = 100.0

// PositionType discriminates the instrument variants in a portfolio's
// position list. It is carried in the "type" field of each JSON object.
type PositionType string

// Supported instrument types.
const (
	TypeEquity      PositionType = "Equity"
	TypeOption      PositionType = "Option"
	TypeBond        PositionType = "Bond"
	TypeFXSpot      PositionType = "FXSpot"
	TypeFXForward   PositionType = "FXForward"
	TypeFXSwap      PositionType = "FXSwap"
	TypeTimeDeposit PositionType = "TimeDeposit"
	TypeFund        PositionType = "Fund"
)

// Valid returns true if the PositionType is one of the defined constants.
func (t PositionType) Valid() bool {
	switch t {
	case TypeEquity, TypeOption, TypeBond, TypeFXSpot, TypeFXForward,
		TypeFXSwap, TypeTimeDeposit, TypeFund:
		return true
	default:
		return false
	}
}

// Position is implemented by every instrument variant a portfolio can hold.
// The screener only inspects Equity and Option variants; the rest parse and
// validate but carry no classification semantics.
type Position interface {
	// PositionType returns the discriminator value of the variant.
	PositionType() PositionType
	// Validate checks field-level constraints (enumerated values,
	// non-negativity). It does not perform cross-position checks.
	Validate() error
}

// Compile-time interface checks for all variants.
var (
	_ Position = (*EquityPosition)(nil)
	_ Position = (*OptionPosition)(nil)
	_ Position = (*BondPosition)(nil)
	_ Position = (*FXSpotPosition)(nil)
	_ Position = (*FXForwardPosition)(nil)
	_ Position = (*FXSwapPosition)(nil)
	_ Position = (*TimeDepositPosition)(nil)
	_ Position = (*FundPosition)(nil)
)

// UnmarshalPosition decodes one element of a portfolio's position list,
// dispatching on the "type" discriminator field.
func UnmarshalPosition(data []byte) (Position, error) {
	var envelope struct {
		Type PositionType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("reading position type: %w", err)
	}

	var pos Position
	switch envelope.Type {
	case TypeEquity:
		pos = &EquityPosition{}
	case TypeOption:
		pos = &OptionPosition{}
	case TypeBond:
		pos = &BondPosition{}
	case TypeFXSpot:
		pos = &FXSpotPosition{}
	case TypeFXForward:
		pos = &FXForwardPosition{}
	case TypeFXSwap:
		pos = &FXSwapPosition{}
	case TypeTimeDeposit:
		pos = &TimeDepositPosition{}
	case TypeFund:
		pos = &FundPosition{}
	default:
		return nil, fmt.Errorf("unknown position type %q", string(envelope.Type))
	}

	if err := json.Unmarshal(data, pos); err != nil {
		return nil, fmt.Errorf("decoding %s position: %w", envelope.Type, err)
	}
	return pos, nil
}

// CIORating is the Chief Investment Office recommendation for an equity.
type CIORating string

// CIO rating values.
const (
	RatingBuy  CIORating = "Buy"
	RatingHold CIORating = "Hold"
	RatingSell CIORating = "Sell"
)

// Valid returns true if the CIORating is one of the defined constants.
func (r CIORating) Valid() bool {
	switch r {
	case RatingBuy, RatingHold, RatingSell:
		return true
	default:
		return false
	}
}

// EquityPosition is a stock holding. Its share quantity backs the coverage
// calculation for short calls and long puts on the same symbol.
type EquityPosition struct {
	Type               PositionType `json:"type"`
	Symbol             string       `json:"symbol"`
	Quantity           int          `json:"quantity"`
	CIORating          CIORating    `json:"cio_rating"`
	AverageCostPrice   float64      `json:"average_cost_price"`
	InstrumentCurrency ISOCurrency  `json:"instrument_currency"`
	MarketValue        float64      `json:"market_value"`
	ISIN               string       `json:"isin"`
}

// PositionType returns TypeEquity.
func (p *EquityPosition) PositionType() PositionType { return TypeEquity }

// Validate checks equity field constraints.
func (p *EquityPosition) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("equity symbol is required")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("equity %s: quantity must be >= 0 (got %d)", p.Symbol, p.Quantity)
	}
	if !p.CIORating.Valid() {
		return fmt.Errorf("equity %s: cio_rating must be one of Buy, Hold, Sell (got %q)", p.Symbol, string(p.CIORating))
	}
	if p.AverageCostPrice < 0 {
		return fmt.Errorf("equity %s: average_cost_price must be >= 0", p.Symbol)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("equity %s: invalid instrument_currency %q", p.Symbol, string(p.InstrumentCurrency))
	}
	if p.MarketValue < 0 {
		return fmt.Errorf("equity %s: market_value must be >= 0", p.Symbol)
	}
	if p.ISIN == "" {
		return fmt.Errorf("equity %s: isin is required", p.Symbol)
	}
	return nil
}

// OptionType distinguishes calls from puts.
type OptionType string

// Option kinds.
const (
	OptionCall OptionType = "Call"
	OptionPut  OptionType = "Put"
)

// Valid returns true if the OptionType is one of the defined constants.
func (t OptionType) Valid() bool {
	return t == OptionCall || t == OptionPut
}

// OptionSide is the directional stance of an option position.
type OptionSide string

// Option stances: Long (holder) or Short (writer).
const (
	SideLong  OptionSide = "Long"
	SideShort OptionSide = "Short"
)

// Valid returns true if the OptionSide is one of the defined constants.
func (s OptionSide) Valid() bool {
	return s == SideLong || s == SideShort
}

// OptionPosition is a listed option contract holding. The ISIN acts as the
// position's identity token: the screener uses it to guarantee each option
// lands in exactly one output record.
type OptionPosition struct {
	Type               PositionType `json:"type"`
	Symbol             string       `json:"symbol"`
	OptionType         OptionType   `json:"option_type"`
	Strike             float64      `json:"strike"`
	Expiry             Date         `json:"expiry"`
	Side               OptionSide   `json:"position"`
	Contracts          int          `json:"contracts"`
	PriceAtPurchase    float64      `json:"price_at_purchase"`
	CurrentPrice       float64      `json:"current_price"`
	MarketValue        float64      `json:"market_value"`
	ISIN               string       `json:"isin"`
	InstrumentCurrency ISOCurrency  `json:"instrument_currency"`
}

// PositionType returns TypeOption.
func (p *OptionPosition) PositionType() PositionType { return TypeOption }

// Validate checks option field constraints.
func (p *OptionPosition) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("option symbol is required")
	}
	if !p.OptionType.Valid() {
		return fmt.Errorf("option %s: option_type must be Call or Put (got %q)", p.Symbol, string(p.OptionType))
	}
	if p.Strike < 0 {
		return fmt.Errorf("option %s: strike must be >= 0 (got %.2f)", p.Symbol, p.Strike)
	}
	if p.Expiry.IsZero() {
		return fmt.Errorf("option %s: expiry is required", p.Symbol)
	}
	if !p.Side.Valid() {
		return fmt.Errorf("option %s: position must be Long or Short (got %q)", p.Symbol, string(p.Side))
	}
	if p.Contracts < 0 {
		return fmt.Errorf("option %s: contracts must be >= 0 (got %d)", p.Symbol, p.Contracts)
	}
	if p.PriceAtPurchase < 0 {
		return fmt.Errorf("option %s: price_at_purchase must be >= 0", p.Symbol)
	}
	if p.CurrentPrice < 0 {
		return fmt.Errorf("option %s: current_price must be >= 0", p.Symbol)
	}
	if p.MarketValue < 0 {
		return fmt.Errorf("option %s: market_value must be >= 0", p.Symbol)
	}
	if p.ISIN == "" {
		return fmt.Errorf("option %s: isin is required", p.Symbol)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("option %s: invalid instrument_currency %q", p.Symbol, string(p.InstrumentCurrency))
	}
	return nil
}

// ShareExposure returns the number of underlying shares the position
// controls (contracts times the standard 100-share multiplier).
func (p *OptionPosition) ShareExposure() float64 {
	return float64(p.Contracts) * sharesPerContract
}

// GrossPremium returns the total premium paid or received at acquisition,
// unsigned: price per contract times contracts times the share multiplier.
func (p *OptionPosition) GrossPremium() float64 {
	return p.PriceAtPurchase * float64(p.Contracts) * sharesPerContract
}
