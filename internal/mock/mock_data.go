// Package mock generates randomized but well-formed portfolios for
// integration runs and demos.
package mock

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/eddiefleurent/option_screener/internal/models"
)

// PortfolioGenerator builds portfolios whose option groups form recognizable
// strategies. ISINs are unique per generator instance.
type PortfolioGenerator struct {
	spotPrices map[string]float64
	expiries   []models.Date
	seq        int
}

// secureFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureFloat64() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		// Fallback to a reasonable default if crypto/rand fails
		return 0.5
	}
	return float64(n.Int64()) / (1 << 53)
}

// secureInt63n generates a cryptographically secure random int64 between 0 and n-1
func secureInt63n(n int64) int64 {
	max := big.NewInt(n)
	r, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to a reasonable default if crypto/rand fails
		return n / 2
	}
	return r.Int64()
}

func NewPortfolioGenerator() *PortfolioGenerator {
	now := time.Now()
	next := func(days int) models.Date {
		d := now.AddDate(0, 0, days)
		return models.NewDate(d.Year(), d.Month(), d.Day())
	}

	return &PortfolioGenerator{
		spotPrices: map[string]float64{
			"SPY":  450.0 + secureFloat64()*10, // SPY around 450-460
			"QQQ":  380.0 + secureFloat64()*10,
			"IWM":  200.0 + secureFloat64()*5,
			"AAPL": 175.0 + secureFloat64()*10,
			"MSFT": 420.0 + secureFloat64()*15,
		},
		expiries: []models.Date{next(30), next(45), next(73)},
	}
}

// Symbols returns the underlyings the generator knows spot prices for.
func (g *PortfolioGenerator) Symbols() []string {
	symbols := make([]string, 0, len(g.spotPrices))
	for s := range g.spotPrices {
		symbols = append(symbols, s)
	}
	return symbols
}

func (g *PortfolioGenerator) nextISIN(symbol string) string {
	g.seq++
	return fmt.Sprintf("MOCK-%s-%04d", symbol, g.seq)
}

func (g *PortfolioGenerator) randomSymbol() string {
	symbols := g.Symbols()
	return symbols[secureInt63n(int64(len(symbols)))]
}

func (g *PortfolioGenerator) randomExpiry() models.Date {
	return g.expiries[secureInt63n(int64(len(g.expiries)))]
}

func (g *PortfolioGenerator) randomSide() models.OptionSide {
	if secureInt63n(2) == 0 {
		return models.SideLong
	}
	return models.SideShort
}

// strikeNear rounds the spot to the nearest 5-point strike plus an offset in
// strike intervals.
func (g *PortfolioGenerator) strikeNear(symbol string, offset int) float64 {
	spot := g.spotPrices[symbol]
	return math.Round(spot/5)*5 + float64(offset)*5
}

// premiumFor approximates an option premium from moneyness and a flat
// volatility guess.
func (g *PortfolioGenerator) premiumFor(symbol string, strike float64) float64 {
	spot := g.spotPrices[symbol]
	distance := math.Abs(strike - spot)
	decay := math.Exp(-distance * 0.02) // Exponential decay
	return math.Max(0.5, spot*0.012*decay)
}

func (g *PortfolioGenerator) option(symbol string, kind models.OptionType, side models.OptionSide,
	strike float64, expiry models.Date, contracts int) *models.OptionPosition {
	premium := g.premiumFor(symbol, strike)
	current := premium * (0.8 + secureFloat64()*0.4)
	return &models.OptionPosition{
		Type:               models.TypeOption,
		Symbol:             symbol,
		OptionType:         kind,
		Strike:             strike,
		Expiry:             expiry,
		Side:               side,
		Contracts:          contracts,
		PriceAtPurchase:    premium,
		CurrentPrice:       current,
		MarketValue:        current * float64(contracts) * 100,
		ISIN:               g.nextISIN(symbol),
		InstrumentCurrency: models.CurrencyUSD,
	}
}

func (g *PortfolioGenerator) equity(symbol string, quantity int) *models.EquityPosition {
	spot := g.spotPrices[symbol]
	return &models.EquityPosition{
		Type:               models.TypeEquity,
		Symbol:             symbol,
		Quantity:           quantity,
		CIORating:          models.RatingHold,
		AverageCostPrice:   spot * (0.9 + secureFloat64()*0.2),
		InstrumentCurrency: models.CurrencyUSD,
		MarketValue:        spot * float64(quantity),
		ISIN:               g.nextISIN(symbol),
	}
}

// Straddle returns a call and put at the same strike and stance.
func (g *PortfolioGenerator) Straddle(symbol string, side models.OptionSide, expiry models.Date) []models.Position {
	strike := g.strikeNear(symbol, 0)
	contracts := int(1 + secureInt63n(3))
	return []models.Position{
		g.option(symbol, models.OptionCall, side, strike, expiry, contracts),
		g.option(symbol, models.OptionPut, side, strike, expiry, contracts),
	}
}

// Strangle returns a call above and a put below the spot, same stance.
func (g *PortfolioGenerator) Strangle(symbol string, side models.OptionSide, expiry models.Date) []models.Position {
	contracts := int(1 + secureInt63n(3))
	return []models.Position{
		g.option(symbol, models.OptionCall, side, g.strikeNear(symbol, 2), expiry, contracts),
		g.option(symbol, models.OptionPut, side, g.strikeNear(symbol, -2), expiry, contracts),
	}
}

// VerticalSpread returns two same-kind legs at different strikes on opposite
// stances.
func (g *PortfolioGenerator) VerticalSpread(symbol string, kind models.OptionType, expiry models.Date) []models.Position {
	contracts := int(1 + secureInt63n(3))
	return []models.Position{
		g.option(symbol, kind, models.SideLong, g.strikeNear(symbol, 0), expiry, contracts),
		g.option(symbol, kind, models.SideShort, g.strikeNear(symbol, 2), expiry, contracts),
	}
}

// CoveredCall returns a short call plus enough shares to cover it fully.
func (g *PortfolioGenerator) CoveredCall(symbol string, expiry models.Date) []models.Position {
	contracts := int(1 + secureInt63n(3))
	return []models.Position{
		g.option(symbol, models.OptionCall, models.SideShort, g.strikeNear(symbol, 1), expiry, contracts),
		g.equity(symbol, contracts*100),
	}
}

// ProtectivePut returns a long put plus partial share coverage.
func (g *PortfolioGenerator) ProtectivePut(symbol string, expiry models.Date) []models.Position {
	contracts := int(2 + secureInt63n(2))
	shares := (contracts - 1) * 100 // Deliberately under-covered
	return []models.Position{
		g.option(symbol, models.OptionPut, models.SideLong, g.strikeNear(symbol, -1), expiry, contracts),
		g.equity(symbol, shares),
	}
}

// NakedSingle returns one uncovered option leg.
func (g *PortfolioGenerator) NakedSingle(symbol string, expiry models.Date) []models.Position {
	kind := models.OptionCall
	if secureInt63n(2) == 0 {
		kind = models.OptionPut
	}
	return []models.Position{
		g.option(symbol, kind, g.randomSide(), g.strikeNear(symbol, int(secureInt63n(5))-2), expiry, int(1+secureInt63n(3))),
	}
}

// GeneratePortfolio builds a portfolio of groups random option structures.
// Each group lands on a random symbol and expiry, so buckets of varying
// shapes emerge naturally.
func (g *PortfolioGenerator) GeneratePortfolio(id string, groups int) *models.Portfolio {
	if id == "" {
		g.seq++
		id = fmt.Sprintf("MOCK-PF-%04d", g.seq)
	}
	if groups < 1 {
		groups = 1
	}

	riskProfiles := []models.RiskProfile{models.RiskConservative, models.RiskModerate, models.RiskAggressive}

	var positions []models.Position
	for i := 0; i < groups; i++ {
		symbol := g.randomSymbol()
		expiry := g.randomExpiry()

		switch secureInt63n(6) {
		case 0:
			positions = append(positions, g.Straddle(symbol, g.randomSide(), expiry)...)
		case 1:
			positions = append(positions, g.Strangle(symbol, g.randomSide(), expiry)...)
		case 2:
			positions = append(positions, g.VerticalSpread(symbol, models.OptionCall, expiry)...)
		case 3:
			positions = append(positions, g.VerticalSpread(symbol, models.OptionPut, expiry)...)
		case 4:
			positions = append(positions, g.CoveredCall(symbol, expiry)...)
		default:
			positions = append(positions, g.NakedSingle(symbol, expiry)...)
		}
	}

	return &models.Portfolio{
		PortfolioID:            id,
		PortfolioCurrency:      models.CurrencyUSD,
		InvestmentHorizonYears: int(1 + secureInt63n(10)),
		RiskProfile:            riskProfiles[secureInt63n(int64(len(riskProfiles)))],
		ProductKnowledge:       []string{"Equity", "Option"},
		Positions:              positions,
	}
}

// GeneratePortfolios builds a batch of n portfolios with groups structures
// each.
func (g *PortfolioGenerator) GeneratePortfolios(n, groups int) []*models.Portfolio {
	portfolios := make([]*models.Portfolio, n)
	for i := range portfolios {
		portfolios[i] = g.GeneratePortfolio("", groups)
	}
	return portfolios
}
