package chart

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

// SubunitsPerUnit is the number of ledger units (satoshi) in the unit the
// fee total is displayed in.
const SubunitsPerUnit uint64 = btcutil.SatoshiPerBitcoin

// unitDecimals is the number of decimals of SubunitsPerUnit.
const unitDecimals = 8

const (
	feesTitle  = "Routing fees earned"
	countTitle = "Forwards count"
)

type Result struct {
	Data        []float64 `json:"data"`
	Description string    `json:"description"`
	Title       string    `json:"title"`
}

type AssembleParams struct {
	IsCount      bool
	Granularity  Granularity
	Series       *BucketSeries
	TotalEarned  uint64
	ForwardCount int
	Start        time.Time
	Now          time.Time

	// Via is the peer the chart was scoped to, empty if not scoped.
	Via string
	// Alias of the via peer, if known.
	Alias string
}

// Assemble builds the chart result from the aggregated series.
func Assemble(p *AssembleParams) *Result {
	since := CalendarPhrase(p.Start, p.Now)
	unit := p.Granularity.String()

	var data []float64
	var title, description string
	if p.IsCount {
		data = make([]float64, len(p.Series.Counts))
		for i, c := range p.Series.Counts {
			data[i] = float64(c)
		}
		title = countTitle
		description = fmt.Sprintf(
			"Forwarded in %d %ss since %s. Total: %d forwards",
			len(p.Series.Counts),
			unit,
			since,
			p.ForwardCount,
		)
	} else {
		data = append([]float64{}, p.Series.Fees...)
		title = feesTitle
		description = fmt.Sprintf(
			"Earned in %d %ss since %s. Total: %s",
			len(p.Series.Fees),
			unit,
			since,
			FormatUnits(p.TotalEarned),
		)
	}

	if p.Via != "" {
		name := p.Alias
		if name == "" {
			name = p.Via
		}
		title += " via " + name
	}

	return &Result{
		Data:        data,
		Description: description,
		Title:       title,
	}
}

// FormatUnits formats an amount of satoshi in whole units with a fixed
// number of decimals, without going through floating point.
func FormatUnits(sat uint64) string {
	return fmt.Sprintf("%d.%0*d", sat/SubunitsPerUnit, unitDecimals, sat%SubunitsPerUnit)
}
