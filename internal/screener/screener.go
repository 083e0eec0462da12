// Package screener implements the strategy-tagging engine: it partitions a
// portfolio's option positions into recognized multi-leg strategies and
// classifies the remaining single legs against equity coverage.
package screener

import (
	"log"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/eddiefleurent/option_screener/internal/models"
	"github.com/eddiefleurent/option_screener/internal/util"
)

// Config controls classification behavior the position data alone does not
// determine.
type Config struct {
	// DistinctSingleLegTags emits "Long Call" and "Short Put" for unpaired
	// long calls and short puts. When false, both report as "Naked".
	DistinctSingleLegTags bool
}

// DefaultConfig returns the default classification settings.
func DefaultConfig() Config {
	return Config{DistinctSingleLegTags: true}
}

// Screener classifies option positions. It holds no per-run state, so a
// single instance may screen portfolios concurrently.
type Screener struct {
	cfg    Config
	logger *log.Logger
}

// New creates a Screener with the given settings.
func New(cfg Config, logger *log.Logger) *Screener {
	if logger == nil {
		logger = log.New(os.Stderr, "screener: ", log.LstdFlags)
	}
	return &Screener{cfg: cfg, logger: logger}
}

// bucketKey groups option legs that can combine into one strategy: legs of
// a multi-leg strategy always share underlying symbol and expiry.
type bucketKey struct {
	symbol string
	expiry models.Date
}

// Screen runs the full classification pass over one portfolio. Strategies
// come first in extraction order, followed by single-leg tagged positions
// in original portfolio order. Every option's ISIN appears in exactly one
// output record.
//
// Screen assumes a validated portfolio; in particular, option ISINs must be
// unique (the input boundary enforces this).
func (s *Screener) Screen(portfolio *models.Portfolio) []models.ScreenResult {
	options := portfolio.OptionPositions()
	equity := portfolio.EquityShares()

	// Bucket legs by (symbol, expiry), buckets in first-seen order.
	var order []bucketKey
	buckets := make(map[bucketKey][]*models.OptionPosition)
	for _, opt := range options {
		k := bucketKey{symbol: opt.Symbol, expiry: opt.Expiry}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], opt)
	}

	consumed := make(map[string]struct{})
	results := make([]models.ScreenResult, 0, len(options))

	for _, k := range order {
		legs := buckets[k]
		results = append(results, s.extractStraddles(legs, consumed)...)
		results = append(results, s.extractStrangles(legs, consumed)...)
		results = append(results, s.extractVerticalSpreads(legs, consumed)...)
	}

	strategies := len(results)
	for _, opt := range options {
		if _, ok := consumed[opt.ISIN]; ok {
			continue
		}
		results = append(results, s.classifySingleLeg(opt, equity))
	}

	s.logger.Printf("screened portfolio %s: %d options -> %d strategies, %d single legs",
		portfolio.PortfolioID, len(options), strategies, len(results)-strategies)

	return results
}

// extractStraddles pulls straddles out of one bucket until no pair
// qualifies: a call and a put with identical strike and identical stance.
func (s *Screener) extractStraddles(legs []*models.OptionPosition, consumed map[string]struct{}) []models.ScreenResult {
	var out []models.ScreenResult
	for {
		calls := unconsumedByType(legs, models.OptionCall, consumed)
		puts := unconsumedByType(legs, models.OptionPut, consumed)

		call, put := matchPair(calls, puts, func(c, p *models.OptionPosition) bool {
			return c.Strike == p.Strike && c.Side == p.Side
		})
		if call == nil {
			return out
		}

		consumed[call.ISIN] = struct{}{}
		consumed[put.ISIN] = struct{}{}

		name := models.StrategyLongStraddle
		if call.Side == models.SideShort {
			name = models.StrategyShortStraddle
		}
		out = append(out, s.buildStrategy(name, call, put))
	}
}

// extractStrangles pulls strangles out of one bucket until no pair
// qualifies: a call and a put with the call strike strictly above the put
// strike and identical stance.
func (s *Screener) extractStrangles(legs []*models.OptionPosition, consumed map[string]struct{}) []models.ScreenResult {
	var out []models.ScreenResult
	for {
		calls := unconsumedByType(legs, models.OptionCall, consumed)
		puts := unconsumedByType(legs, models.OptionPut, consumed)

		call, put := matchPair(calls, puts, func(c, p *models.OptionPosition) bool {
			return c.Strike > p.Strike && c.Side == p.Side
		})
		if call == nil {
			return out
		}

		consumed[call.ISIN] = struct{}{}
		consumed[put.ISIN] = struct{}{}

		name := models.StrategyLongStrangle
		if call.Side == models.SideShort {
			name = models.StrategyShortStrangle
		}
		out = append(out, s.buildStrategy(name, call, put))
	}
}

// extractVerticalSpreads pulls vertical spreads out of one bucket until no
// pair qualifies: two legs of the same kind, different strikes, opposite
// stance. Calls are processed before puts; legs are emitted in ascending
// strike order.
func (s *Screener) extractVerticalSpreads(legs []*models.OptionPosition, consumed map[string]struct{}) []models.ScreenResult {
	var out []models.ScreenResult
	for _, kind := range []models.OptionType{models.OptionCall, models.OptionPut} {
		for {
			candidates := unconsumedByType(legs, kind, consumed)

			low, high := matchSpreadPair(candidates)
			if low == nil {
				break
			}

			consumed[low.ISIN] = struct{}{}
			consumed[high.ISIN] = struct{}{}

			name := models.StrategyCallVerticalSpread
			if kind == models.OptionPut {
				name = models.StrategyPutVerticalSpread
			}
			out = append(out, s.buildStrategy(name, low, high))
		}
	}
	return out
}

// classifySingleLeg tags one unconsumed option against the portfolio's
// equity holdings.
func (s *Screener) classifySingleLeg(opt *models.OptionPosition, equity map[string]int) models.TaggedOptionPosition {
	tagged := models.TaggedOptionPosition{
		Symbol:     opt.Symbol,
		OptionType: opt.OptionType,
		Side:       opt.Side,
		Strike:     opt.Strike,
		Expiry:     opt.Expiry,
		Tag:        models.TagNaked,
	}

	exposure := opt.ShareExposure()
	if exposure == 0 {
		// Zero contracts: no meaningful coverage ratio exists.
		tagged.Tag = models.TagInvalid
		s.logger.Printf("option %s (%s %s %s): zero contract exposure, flagged invalid",
			opt.ISIN, opt.Symbol, opt.Side, opt.OptionType)
		return tagged
	}

	shares := float64(equity[opt.Symbol])

	switch {
	case opt.Side == models.SideShort && opt.OptionType == models.OptionCall:
		tagged.CoveragePercent = coveragePercent(shares, exposure)
		switch {
		case tagged.CoveragePercent == 100:
			tagged.Tag = models.TagCoveredCall
		case tagged.CoveragePercent > 0:
			tagged.Tag = models.TagPartiallyCoveredCall
		}
	case opt.Side == models.SideLong && opt.OptionType == models.OptionPut:
		tagged.CoveragePercent = coveragePercent(shares, exposure)
		switch {
		case tagged.CoveragePercent == 100:
			tagged.Tag = models.TagProtectivePut
		case tagged.CoveragePercent > 0:
			tagged.Tag = models.TagPartiallyProtectivePut
		}
	case opt.Side == models.SideLong && opt.OptionType == models.OptionCall:
		if s.cfg.DistinctSingleLegTags {
			tagged.Tag = models.TagLongCall
		}
	case opt.Side == models.SideShort && opt.OptionType == models.OptionPut:
		if s.cfg.DistinctSingleLegTags {
			tagged.Tag = models.TagShortPut
		}
	}

	return tagged
}

// buildStrategy assembles the output record for one matched pair of legs.
func (s *Screener) buildStrategy(name models.StrategyName, legs ...*models.OptionPosition) models.OptionStrategy {
	strategy := models.OptionStrategy{
		StrategyID:       uuid.New().String(),
		StrategyName:     name,
		UnderlyingSymbol: legs[0].Symbol,
		ExpiryDate:       legs[0].Expiry,
		Legs:             make([]models.OptionPosition, 0, len(legs)),
	}
	for _, leg := range legs {
		strategy.Legs = append(strategy.Legs, *leg)
		strategy.NetPremiumPaidReceived += signedPremium(leg)
	}
	return strategy
}

// signedPremium is a leg's premium cash flow: positive when paid (Long),
// negative when received (Short).
func signedPremium(leg *models.OptionPosition) float64 {
	if leg.Side == models.SideShort {
		return -leg.GrossPremium()
	}
	return leg.GrossPremium()
}

// coveragePercent is the share of option exposure backed by equity held,
// rounded to two decimals and capped at 100.
func coveragePercent(shares, exposure float64) float64 {
	return util.ClampPercent(util.Round2(shares / exposure * 100))
}

// unconsumedByType returns the bucket's unconsumed legs of one option kind,
// sorted by ascending strike. The sort is stable so equal strikes keep
// portfolio order.
func unconsumedByType(legs []*models.OptionPosition, kind models.OptionType, consumed map[string]struct{}) []*models.OptionPosition {
	var filtered []*models.OptionPosition
	for _, leg := range legs {
		if leg.OptionType != kind {
			continue
		}
		if _, ok := consumed[leg.ISIN]; ok {
			continue
		}
		filtered = append(filtered, leg)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Strike < filtered[j].Strike
	})
	return filtered
}

// matchPair scans call/put candidate pairs in ascending strike order and
// returns the first pair the predicate accepts, or nils when none does.
func matchPair(calls, puts []*models.OptionPosition, valid func(call, put *models.OptionPosition) bool) (*models.OptionPosition, *models.OptionPosition) {
	for _, call := range calls {
		for _, put := range puts {
			if valid(call, put) {
				return call, put
			}
		}
	}
	return nil, nil
}

// matchSpreadPair scans same-kind candidates sorted by ascending strike and
// returns the first pair with different strikes and opposite stance, lower
// strike first.
func matchSpreadPair(candidates []*models.OptionPosition) (*models.OptionPosition, *models.OptionPosition) {
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.Strike != b.Strike && a.Side != b.Side {
				return a, b
			}
		}
	}
	return nil, nil
}
