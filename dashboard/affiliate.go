package dashboard

import (
	"context"
	"fmt"
	"math"

	"thordash/dataset"
	M "thordash/model"
	U "thordash/util"
)

func (a *Assembler) withPeriod(label string) string {
	if a.affiliatePeriod == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, a.affiliatePeriod)
}

func (a *Assembler) buildAffiliate(ctx context.Context, info ViewInfo) (*View, error) {
	feeTable, err := a.loader.Load(ctx, dataset.AffiliateFee)
	if err != nil {
		return nil, err
	}
	fees, err := M.DecodeAffiliateFees(feeTable)
	if err != nil {
		return nil, err
	}
	rankedFees, err := M.RankAndTotal(dataset.AffiliateFee, fees,
		func(r M.AffiliateFeeRow) float64 { return r.AffiliateFee })
	if err != nil {
		return nil, err
	}

	volumeTable, err := a.loader.Load(ctx, dataset.AffiliateVolume)
	if err != nil {
		return nil, err
	}
	volumes, err := M.DecodeAffiliateVolumes(volumeTable)
	if err != nil {
		return nil, err
	}
	rankedVolumes, err := M.RankAndTotal(dataset.AffiliateVolume, volumes,
		func(r M.AffiliateVolumeRow) float64 { return r.Volume })
	if err != nil {
		return nil, err
	}

	view := newView(info, "Thorchain Affiliates Dashboard", "Unified view of affiliate earnings and volume activity")
	view.Period = a.affiliatePeriod
	view.KPIs = []KPI{
		totalKPI(a.withPeriod("Total Affiliate Fee"), rankedFees.Total),
		totalKPI(a.withPeriod("Total Trading Volume"), rankedVolumes.Total),
	}

	volumeEntries := rankedEntries(rankedVolumes, func(r M.AffiliateVolumeRow) string { return r.Affiliate })
	feeEntries := rankedEntries(rankedFees, func(r M.AffiliateFeeRow) string { return r.Affiliate })
	view.Tables = []RankedTable{
		{Title: a.withPeriod("Affiliate Volume"), Kind: ChartKindBar, LabelTitle: "Affiliate",
			ValueTitle: "Volume (USD)", Total: Number(rankedVolumes.Total), Rows: volumeEntries},
		{Title: a.withPeriod("Affiliate Share of Total Volume"), Kind: ChartKindPie, LabelTitle: "Affiliate",
			ValueTitle: "Volume (USD)", Total: Number(rankedVolumes.Total), Rows: volumeEntries},
		{Title: a.withPeriod("Total Affiliate Fees"), Kind: ChartKindBar, LabelTitle: "Affiliate",
			ValueTitle: "Affiliate Fee (USD)", Total: Number(rankedFees.Total), Rows: feeEntries},
		{Title: a.withPeriod("Affiliate Share of Total Fees"), Kind: ChartKindPie, LabelTitle: "Affiliate",
			ValueTitle: "Affiliate Fee (USD)", Total: Number(rankedFees.Total), Rows: feeEntries},
	}
	return view, nil
}

func totalKPI(label string, total float64) KPI {
	return KPI{
		Label:        label,
		Value:        Number(total),
		DeltaPercent: Number(math.NaN()),
		Display:      U.FormatUSD(total),
	}
}

func rankedEntries[T any](ranking *M.Ranking[T], label func(T) string) []RankedEntry {
	entries := make([]RankedEntry, 0, len(ranking.Rows))
	for _, row := range ranking.Rows {
		entries = append(entries, RankedEntry{
			Label:   label(row.Row),
			Value:   Number(row.Value),
			Percent: Number(U.FloatRoundOffWithPrecision(row.Percent, percentPrecision)),
		})
	}
	return entries
}
