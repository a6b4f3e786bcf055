package synthetic

import (
	"math"
	"math/rand"
	"time"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/datasource"
	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

const generatorComponentName = "datasource.synthetic.generator"

// Generator produces a seeded geometric random-walk bar series. With the
// same seed it emits an identical sequence every run, which makes it usable
// in deterministic tests and example backtests.
type Generator struct {
	symbol     string
	period     time.Duration
	start      time.Time
	count      int
	price      float64
	volatility float64

	rng     *rand.Rand
	emitted int
}

func NewGenerator(symbol string, period time.Duration, start time.Time, count int, startPrice, volatility float64, seed int64) *Generator {
	return &Generator{
		symbol:     symbol,
		period:     period,
		start:      start,
		count:      count,
		price:      startPrice,
		volatility: volatility,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) GetNext() (common.Bar, error) {
	var bar common.Bar

	if g.emitted >= g.count {
		return bar, datasource.ErrEof
	}

	open := g.price
	drift := g.rng.NormFloat64() * g.volatility * open
	closeP := open + drift

	high := math.Max(open, closeP) * (1 + g.rng.Float64()*g.volatility)
	low := math.Min(open, closeP) * (1 - g.rng.Float64()*g.volatility)
	volume := 100 + g.rng.Float64()*900

	bar.TimeStamp = g.start.Add(time.Duration(g.emitted) * g.period)
	bar.Open = fixed.FromFloat64(open).Rescale(4)
	bar.High = fixed.FromFloat64(high).Rescale(4)
	bar.Low = fixed.FromFloat64(low).Rescale(4)
	bar.Close = fixed.FromFloat64(closeP).Rescale(4)
	bar.Volume = fixed.FromFloat64(volume).Rescale(2)
	bar.Source = generatorComponentName
	bar.Symbol = g.symbol
	bar.Period = g.period
	bar.ExecutionId = utility.GetExecutionID()
	bar.TraceID = utility.CreateTraceID()

	g.price = closeP
	g.emitted++

	return bar, nil
}
