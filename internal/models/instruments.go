package models

import "fmt"

// The variants below round out the portfolio contract. They parse and
// validate like equities and options but the screener ignores them.

// CouponFrequency is how often a bond pays its coupon.
type CouponFrequency string

// Coupon payment frequencies.
const (
	CouponAnnual     CouponFrequency = "Annual"
	CouponSemiAnnual CouponFrequency = "Semi-Annual"
	CouponQuarterly  CouponFrequency = "Quarterly"
	CouponMonthly    CouponFrequency = "Monthly"
)

// Valid returns true if the CouponFrequency is one of the defined constants.
func (f CouponFrequency) Valid() bool {
	switch f {
	case CouponAnnual, CouponSemiAnnual, CouponQuarterly, CouponMonthly:
		return true
	default:
		return false
	}
}

// DayCountConvention is the accrual convention used for bond interest.
type DayCountConvention string

// Day count conventions.
const (
	DayCount30360        DayCountConvention = "30/360"
	DayCountActual360    DayCountConvention = "Actual/360"
	DayCountActual365    DayCountConvention = "Actual/365"
	DayCountActualActual DayCountConvention = "Actual/Actual"
)

// Valid returns true if the DayCountConvention is one of the defined constants.
func (d DayCountConvention) Valid() bool {
	switch d {
	case DayCount30360, DayCountActual360, DayCountActual365, DayCountActualActual:
		return true
	default:
		return false
	}
}

// BondPosition is a fixed-income holding.
type BondPosition struct {
	Type               PositionType       `json:"type"`
	Symbol             string             `json:"symbol"`
	Issuer             string             `json:"issuer"`
	FaceValue          float64            `json:"face_value"`
	CouponRate         float64            `json:"coupon_rate"`
	MaturityDate       Date               `json:"maturity_date"`
	Quantity           int                `json:"quantity"`
	AverageCostPrice   float64            `json:"average_cost_price"`
	InstrumentCurrency ISOCurrency        `json:"instrument_currency"`
	MarketValue        float64            `json:"market_value"`
	ISIN               string             `json:"isin"`
	CouponFrequency    CouponFrequency    `json:"coupon_frequency"`
	DayCountConvention DayCountConvention `json:"day_count_convention"`
}

// PositionType returns TypeBond.
func (p *BondPosition) PositionType() PositionType { return TypeBond }

// Validate checks bond field constraints.
func (p *BondPosition) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("bond symbol is required")
	}
	if p.FaceValue < 0 {
		return fmt.Errorf("bond %s: face_value must be >= 0", p.Symbol)
	}
	if p.CouponRate < 0 {
		return fmt.Errorf("bond %s: coupon_rate must be >= 0", p.Symbol)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("bond %s: quantity must be >= 0 (got %d)", p.Symbol, p.Quantity)
	}
	if p.AverageCostPrice < 0 {
		return fmt.Errorf("bond %s: average_cost_price must be >= 0", p.Symbol)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("bond %s: invalid instrument_currency %q", p.Symbol, string(p.InstrumentCurrency))
	}
	if p.MarketValue < 0 {
		return fmt.Errorf("bond %s: market_value must be >= 0", p.Symbol)
	}
	if !p.CouponFrequency.Valid() {
		return fmt.Errorf("bond %s: invalid coupon_frequency %q", p.Symbol, string(p.CouponFrequency))
	}
	if !p.DayCountConvention.Valid() {
		return fmt.Errorf("bond %s: invalid day_count_convention %q", p.Symbol, string(p.DayCountConvention))
	}
	return nil
}

// FXSide is the direction of an FX trade from the client's perspective.
type FXSide string

// FX trade directions.
const (
	FXBuy  FXSide = "Buy"
	FXSell FXSide = "Sell"
)

// Valid returns true if the FXSide is one of the defined constants.
func (s FXSide) Valid() bool {
	return s == FXBuy || s == FXSell
}

// FXSpotPosition is a spot foreign-exchange trade.
type FXSpotPosition struct {
	Type           PositionType `json:"type"`
	BaseCurrency   ISOCurrency  `json:"base_currency"`
	QuoteCurrency  ISOCurrency  `json:"quote_currency"`
	Notional       float64      `json:"notional"`
	Side           FXSide       `json:"side"`
	TradeDate      Date         `json:"trade_date"`
	SettlementDate Date         `json:"settlement_date"`
	SpotRate       float64      `json:"spot_rate"`
	MarketValue    float64      `json:"market_value"`
	ValuationDate  Date         `json:"valuation_date"`
}

// PositionType returns TypeFXSpot.
func (p *FXSpotPosition) PositionType() PositionType { return TypeFXSpot }

// Validate checks FX spot field constraints.
func (p *FXSpotPosition) Validate() error {
	if !p.BaseCurrency.Valid() {
		return fmt.Errorf("fx spot: invalid base_currency %q", string(p.BaseCurrency))
	}
	if !p.QuoteCurrency.Valid() {
		return fmt.Errorf("fx spot: invalid quote_currency %q", string(p.QuoteCurrency))
	}
	if p.Notional < 0 {
		return fmt.Errorf("fx spot %s/%s: notional must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if !p.Side.Valid() {
		return fmt.Errorf("fx spot %s/%s: side must be Buy or Sell (got %q)", p.BaseCurrency, p.QuoteCurrency, string(p.Side))
	}
	if p.SpotRate < 0 {
		return fmt.Errorf("fx spot %s/%s: spot_rate must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if p.MarketValue < 0 {
		return fmt.Errorf("fx spot %s/%s: market_value must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	return nil
}

// FXForwardPosition is a forward foreign-exchange contract. Its mark to
// market may be negative, so market_value carries no sign constraint.
type FXForwardPosition struct {
	Type               PositionType `json:"type"`
	BaseCurrency       ISOCurrency  `json:"base_currency"`
	QuoteCurrency      ISOCurrency  `json:"quote_currency"`
	Notional           float64      `json:"notional"`
	Side               FXSide       `json:"side"`
	TradeDate          Date         `json:"trade_date"`
	SettlementDate     Date         `json:"settlement_date"`
	ForwardRate        float64      `json:"forward_rate"`
	MarketValue        float64      `json:"market_value"`
	ValuationDate      Date         `json:"valuation_date"`
	InstrumentCurrency ISOCurrency  `json:"instrument_currency"`
}

// PositionType returns TypeFXForward.
func (p *FXForwardPosition) PositionType() PositionType { return TypeFXForward }

// Validate checks FX forward field constraints.
func (p *FXForwardPosition) Validate() error {
	if !p.BaseCurrency.Valid() {
		return fmt.Errorf("fx forward: invalid base_currency %q", string(p.BaseCurrency))
	}
	if !p.QuoteCurrency.Valid() {
		return fmt.Errorf("fx forward: invalid quote_currency %q", string(p.QuoteCurrency))
	}
	if p.Notional < 0 {
		return fmt.Errorf("fx forward %s/%s: notional must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if !p.Side.Valid() {
		return fmt.Errorf("fx forward %s/%s: side must be Buy or Sell (got %q)", p.BaseCurrency, p.QuoteCurrency, string(p.Side))
	}
	if p.ForwardRate < 0 {
		return fmt.Errorf("fx forward %s/%s: forward_rate must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("fx forward %s/%s: invalid instrument_currency %q", p.BaseCurrency, p.QuoteCurrency, string(p.InstrumentCurrency))
	}
	return nil
}

// FXSwapPosition is a two-leg FX swap (near spot leg plus far forward leg).
type FXSwapPosition struct {
	Type                  PositionType `json:"type"`
	BaseCurrency          ISOCurrency  `json:"base_currency"`
	QuoteCurrency         ISOCurrency  `json:"quote_currency"`
	Notional              float64      `json:"notional"`
	Side                  FXSide       `json:"side"`
	TradeDate             Date         `json:"trade_date"`
	NearLegSettlementDate Date         `json:"near_leg_settlement_date"`
	FarLegSettlementDate  Date         `json:"far_leg_settlement_date"`
	NearLegRate           float64      `json:"near_leg_rate"`
	FarLegRate            float64      `json:"far_leg_rate"`
	MarketValue           float64      `json:"market_value"`
	ValuationDate         Date         `json:"valuation_date"`
	InstrumentCurrency    ISOCurrency  `json:"instrument_currency"`
}

// PositionType returns TypeFXSwap.
func (p *FXSwapPosition) PositionType() PositionType { return TypeFXSwap }

// Validate checks FX swap field constraints.
func (p *FXSwapPosition) Validate() error {
	if !p.BaseCurrency.Valid() {
		return fmt.Errorf("fx swap: invalid base_currency %q", string(p.BaseCurrency))
	}
	if !p.QuoteCurrency.Valid() {
		return fmt.Errorf("fx swap: invalid quote_currency %q", string(p.QuoteCurrency))
	}
	if p.Notional < 0 {
		return fmt.Errorf("fx swap %s/%s: notional must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if !p.Side.Valid() {
		return fmt.Errorf("fx swap %s/%s: side must be Buy or Sell (got %q)", p.BaseCurrency, p.QuoteCurrency, string(p.Side))
	}
	if p.NearLegRate < 0 {
		return fmt.Errorf("fx swap %s/%s: near_leg_rate must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if p.FarLegRate < 0 {
		return fmt.Errorf("fx swap %s/%s: far_leg_rate must be >= 0", p.BaseCurrency, p.QuoteCurrency)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("fx swap %s/%s: invalid instrument_currency %q", p.BaseCurrency, p.QuoteCurrency, string(p.InstrumentCurrency))
	}
	return nil
}

// InterestType is the interest calculation method for a time deposit.
type InterestType string

// Interest calculation methods.
const (
	InterestSimple   InterestType = "Simple"
	InterestCompound InterestType = "Compound"
)

// Valid returns true if the InterestType is one of the defined constants.
func (t InterestType) Valid() bool {
	return t == InterestSimple || t == InterestCompound
}

// CompoundingFrequency is how often compound interest is applied.
type CompoundingFrequency string

// Compounding frequencies. CompoundingNone applies to simple-interest deposits.
const (
	CompoundingMonthly   CompoundingFrequency = "Monthly"
	CompoundingQuarterly CompoundingFrequency = "Quarterly"
	CompoundingAnnually  CompoundingFrequency = "Annually"
	CompoundingNone      CompoundingFrequency = "None"
)

// Valid returns true if the CompoundingFrequency is one of the defined constants.
func (f CompoundingFrequency) Valid() bool {
	switch f {
	case CompoundingMonthly, CompoundingQuarterly, CompoundingAnnually, CompoundingNone:
		return true
	default:
		return false
	}
}

// TimeDepositPosition is a fixed-term cash deposit.
type TimeDepositPosition struct {
	Type                 PositionType         `json:"type"`
	Currency             ISOCurrency          `json:"currency"`
	Principal            float64              `json:"principal"`
	InterestRate         float64              `json:"interest_rate"`
	StartDate            Date                 `json:"start_date"`
	MaturityDate         Date                 `json:"maturity_date"`
	InterestType         InterestType         `json:"interest_type"`
	CompoundingFrequency CompoundingFrequency `json:"compounding_frequency"`
	AccruedInterest      float64              `json:"accrued_interest"`
	MarketValue          float64              `json:"market_value"`
	ValuationDate        Date                 `json:"valuation_date"`
	InstrumentCurrency   ISOCurrency          `json:"instrument_currency"`
}

// PositionType returns TypeTimeDeposit.
func (p *TimeDepositPosition) PositionType() PositionType { return TypeTimeDeposit }

// Validate checks time deposit field constraints. Empty interest_type and
// compounding_frequency default to Simple and None.
func (p *TimeDepositPosition) Validate() error {
	if !p.Currency.Valid() {
		return fmt.Errorf("time deposit: invalid currency %q", string(p.Currency))
	}
	if p.Principal < 0 {
		return fmt.Errorf("time deposit %s: principal must be >= 0", p.Currency)
	}
	if p.InterestRate < 0 {
		return fmt.Errorf("time deposit %s: interest_rate must be >= 0", p.Currency)
	}
	if p.InterestType == "" {
		p.InterestType = InterestSimple
	}
	if !p.InterestType.Valid() {
		return fmt.Errorf("time deposit %s: interest_type must be Simple or Compound (got %q)", p.Currency, string(p.InterestType))
	}
	if p.CompoundingFrequency == "" {
		p.CompoundingFrequency = CompoundingNone
	}
	if !p.CompoundingFrequency.Valid() {
		return fmt.Errorf("time deposit %s: invalid compounding_frequency %q", p.Currency, string(p.CompoundingFrequency))
	}
	if p.AccruedInterest < 0 {
		return fmt.Errorf("time deposit %s: accrued_interest must be >= 0", p.Currency)
	}
	if p.MarketValue < 0 {
		return fmt.Errorf("time deposit %s: market_value must be >= 0", p.Currency)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("time deposit %s: invalid instrument_currency %q", p.Currency, string(p.InstrumentCurrency))
	}
	return nil
}

// FundType is the category of a fund holding.
type FundType string

// Fund categories.
const (
	FundMutual FundType = "Mutual Fund"
	FundETF    FundType = "ETF"
	FundHedge  FundType = "Hedge Fund"
)

// Valid returns true if the FundType is one of the defined constants.
func (t FundType) Valid() bool {
	switch t {
	case FundMutual, FundETF, FundHedge:
		return true
	default:
		return false
	}
}

// FundPosition is a mutual fund, ETF, or hedge fund holding.
type FundPosition struct {
	Type               PositionType `json:"type"`
	FundName           string       `json:"fund_name"`
	Symbol             string       `json:"symbol"`
	FundType           FundType     `json:"fund_type"`
	Quantity           float64      `json:"quantity"`
	NAVPerUnit         float64      `json:"nav_per_unit"`
	AverageCostPrice   float64      `json:"average_cost_price"`
	MarketValue        float64      `json:"market_value"`
	ISIN               string       `json:"isin"`
	InstrumentCurrency ISOCurrency  `json:"instrument_currency"`
}

// PositionType returns TypeFund.
func (p *FundPosition) PositionType() PositionType { return TypeFund }

// Validate checks fund field constraints.
func (p *FundPosition) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("fund symbol is required")
	}
	if !p.FundType.Valid() {
		return fmt.Errorf("fund %s: invalid fund_type %q", p.Symbol, string(p.FundType))
	}
	if p.Quantity < 0 {
		return fmt.Errorf("fund %s: quantity must be >= 0", p.Symbol)
	}
	if p.NAVPerUnit < 0 {
		return fmt.Errorf("fund %s: nav_per_unit must be >= 0", p.Symbol)
	}
	if p.AverageCostPrice < 0 {
		return fmt.Errorf("fund %s: average_cost_price must be >= 0", p.Symbol)
	}
	if p.MarketValue < 0 {
		return fmt.Errorf("fund %s: market_value must be >= 0", p.Symbol)
	}
	if !p.InstrumentCurrency.Valid() {
		return fmt.Errorf("fund %s: invalid instrument_currency %q", p.Symbol, string(p.InstrumentCurrency))
	}
	return nil
}
