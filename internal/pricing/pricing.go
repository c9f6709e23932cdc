// Package pricing solves suggested sale prices per sales channel from a
// recipe's ingredient cost and each channel's fee structure.
//
// Every channel price satisfies
//
//	price = (CMV + fixedFee + profitMoney) / (1 - variableRate)
//
// where variableRate groups the percentages charged on the sale price.
// In full mode profitMoney is zero and the margin percentage is part of
// the variable rate; in fixed-profit mode profitMoney is the money profit
// realised on the base channel.
package pricing

import (
	"math"
	"strings"

	"acai-backend/internal/domain"
)

const (
	// MaxVariablePercent caps the percentage sum used as divisor.
	MaxVariablePercent = 95.0
	// MinDivisor keeps the divisor positive for pathological rates.
	MinDivisor = 0.01
)

type Input struct {
	Ingredients        []domain.RecipeIngredient
	Channels           []domain.SalesChannel
	OperationalPercent float64
	ProfitPercent      float64
	Mode               domain.PricingMode
	// ManualPrices maps channel id to a price typed by the operator.
	ManualPrices map[int64]float64
}

type Breakdown struct {
	PlatformFee float64
	Operational float64
	CMV         float64
	Profit      float64
}

type ChannelResult struct {
	ChannelID      int64
	Name           string
	Color          string
	IsBase         bool
	SuggestedPrice float64
	Manual         bool
	Profit         float64
	MarginPercent  float64
	Breakdown      Breakdown
}

type Result struct {
	CMV          float64
	Mode         domain.PricingMode
	BaseChannel  int64
	TargetProfit float64
	Channels     []ChannelResult
}

// CMV sums the cost of every ingredient at its snapshot unit cost.
func CMV(ingredients []domain.RecipeIngredient) float64 {
	var total float64
	for _, ing := range ingredients {
		total += ing.Cost()
	}
	return total
}

// Divisor returns 1 - min(percent, 95)/100, floored at 0.01.
func Divisor(variablePercent float64) float64 {
	return math.Max(MinDivisor, 1-math.Min(variablePercent, MaxVariablePercent)/100)
}

// SolvePrice returns the price that covers fixed costs plus target money
// profit after the variable percentages are taken from it.
func SolvePrice(fixedCosts, targetProfit, variablePercent float64) float64 {
	return (fixedCosts + targetProfit) / Divisor(variablePercent)
}

// BaseChannel picks the channel flagged IsBase, else the first one.
// It returns -1 when channels is empty.
func BaseChannel(channels []domain.SalesChannel) int {
	if len(channels) == 0 {
		return -1
	}
	for i, c := range channels {
		if c.IsBase {
			return i
		}
	}
	return 0
}

// Calculate prices every channel. It has no side effects.
func Calculate(in Input) Result {
	cmv := CMV(in.Ingredients)
	mode := in.Mode
	if mode == "" {
		mode = domain.PricingFull
	}
	res := Result{CMV: cmv, Mode: mode, Channels: make([]ChannelResult, 0, len(in.Channels))}
	if len(in.Channels) == 0 {
		return res
	}

	baseIdx := BaseChannel(in.Channels)
	base := in.Channels[baseIdx]
	res.BaseChannel = base.ID

	if mode == domain.PricingFixedProfit {
		basePrice, manual := in.price(base, fullPrice(cmv, base, in.OperationalPercent, in.ProfitPercent))
		baseResult := breakdown(base, basePrice, manual, cmv, in.OperationalPercent)
		res.TargetProfit = baseResult.Profit

		for i, ch := range in.Channels {
			if i == baseIdx {
				baseResult.IsBase = true
				res.Channels = append(res.Channels, baseResult)
				continue
			}
			variable := ch.CommissionPercent + ch.PaymentFeePercent + in.OperationalPercent
			solved := SolvePrice(cmv+ch.FixedFee, res.TargetProfit, variable)
			price, manual := in.price(ch, solved)
			res.Channels = append(res.Channels, breakdown(ch, price, manual, cmv, in.OperationalPercent))
		}
		return res
	}

	for i, ch := range in.Channels {
		price, manual := in.price(ch, fullPrice(cmv, ch, in.OperationalPercent, in.ProfitPercent))
		cr := breakdown(ch, price, manual, cmv, in.OperationalPercent)
		cr.IsBase = i == baseIdx
		res.Channels = append(res.Channels, cr)
	}
	return res
}

func fullPrice(cmv float64, ch domain.SalesChannel, opPercent, marginPercent float64) float64 {
	variable := ch.CommissionPercent + ch.PaymentFeePercent + opPercent + marginPercent
	return SolvePrice(cmv+ch.FixedFee, 0, variable)
}

// price returns the manual override for ch when one is set.
func (in Input) price(ch domain.SalesChannel, computed float64) (float64, bool) {
	if manual, ok := in.ManualPrices[ch.ID]; ok && manual > 0 {
		return manual, true
	}
	return computed, false
}

func breakdown(ch domain.SalesChannel, price float64, manual bool, cmv, opPercent float64) ChannelResult {
	platform := price*(ch.CommissionPercent+ch.PaymentFeePercent)/100 + ch.FixedFee
	operational := price * opPercent / 100
	profit := price - platform - operational - cmv
	var margin float64
	if price > 0 {
		margin = profit / price * 100
	}
	return ChannelResult{
		ChannelID:      ch.ID,
		Name:           ch.Name,
		Color:          ch.Color,
		SuggestedPrice: price,
		Manual:         manual,
		Profit:         profit,
		MarginPercent:  margin,
		Breakdown: Breakdown{
			PlatformFee: platform,
			Operational: operational,
			CMV:         cmv,
			Profit:      profit,
		},
	}
}

// FromRecipe builds the calculator input stored with a recipe.
func FromRecipe(r domain.Recipe, channels []domain.SalesChannel) Input {
	return Input{
		Ingredients:        r.Ingredients,
		Channels:           channels,
		OperationalPercent: r.OperationalPercent,
		ProfitPercent:      r.ProfitPercent,
		Mode:               r.PricingMode,
		ManualPrices:       r.ManualPrices,
	}
}

// Snapshot summarises a saved recipe for listings.
type Snapshot struct {
	CMV       float64
	BasePrice float64
	BaseName  string
}

// SummarizeRecipe returns CMV and the base channel price of a recipe.
func SummarizeRecipe(r domain.Recipe, channels []domain.SalesChannel) Snapshot {
	res := Calculate(FromRecipe(r, channels))
	snap := Snapshot{CMV: res.CMV}
	for _, c := range res.Channels {
		if c.ChannelID == res.BaseChannel {
			snap.BasePrice = c.SuggestedPrice
			snap.BaseName = c.Name
			break
		}
	}
	return snap
}

// YieldUnitCost is the cost of one unit of a reusable recipe's output.
func YieldUnitCost(r domain.Recipe) float64 {
	if r.YieldAmount <= 0 {
		return 0
	}
	return CMV(r.Ingredients) / r.YieldAmount
}

// ReusableSupply returns the supply a reusable recipe produces: the whole
// batch priced at its CMV. Yields in kg or l are converted to g or ml so
// recipes can consume the supply in the usual units. ok is false when the
// recipe is not reusable or has no yield.
func ReusableSupply(r domain.Recipe) (s domain.Supply, ok bool) {
	if !r.IsReusable || r.YieldAmount <= 0 {
		return domain.Supply{}, false
	}
	unit, amount := domain.UnitPiece, r.YieldAmount
	switch strings.ToLower(strings.TrimSpace(r.YieldUnit)) {
	case "g":
		unit = domain.UnitGram
	case "kg":
		unit, amount = domain.UnitGram, amount*1000
	case "ml":
		unit = domain.UnitMilliliter
	case "l":
		unit, amount = domain.UnitMilliliter, amount*1000
	}
	id := r.ID
	return domain.Supply{
		Name:     r.Name,
		Category: domain.ReusableSupplyCategory,
		Unit:     unit,
		Price:    CMV(r.Ingredients),
		Amount:   amount,
		RecipeID: &id,
	}, true
}
