package metrics

import (
	"munibond/internal/dataset"
	"munibond/internal/query"
)

// CreditSentiment tallies non-Stable rating outlooks per year. Each
// outlook carries a sentiment value (+100 Positive, -100 Negative);
// grouping by (year, outlook) yields the count and mean score per
// segment, most recent years first, Positive before Negative within a
// year. Ratings with out-of-enum outlooks were already excluded by the
// rating frame.
func CreditSentiment(s *dataset.Snapshot) (*query.Table, error) {
	ratings := ratingFrame(s)

	rows := query.NewTable("rating_year", "outlook", "sentiment_value")
	for _, r := range ratings.Rows {
		outlook, _ := r.String("outlook")
		if outlook == string(dataset.OutlookStable) {
			continue
		}
		d, ok := r.Time("rating_date")
		if !ok {
			continue
		}
		rows.Append(query.Row{
			"rating_year":     int64(d.Year()),
			"outlook":         outlook,
			"sentiment_value": dataset.Outlook(outlook).SentimentValue(),
		})
	}

	out := query.GroupBy(rows,
		[]string{"rating_year", "outlook"},
		[]query.Aggregation{
			{Reducer: query.Count, As: "total_ratings_in_year"},
			{Column: "sentiment_value", Reducer: query.Mean, As: "average_sentiment_score"},
		})

	query.SortBy(out, func(a, b query.Row) bool {
		ay, _ := a.Float("rating_year")
		by, _ := b.Float("rating_year")
		if ay != by {
			return ay > by
		}
		ao, _ := a.String("outlook")
		bo, _ := b.String("outlook")
		return ao > bo // Positive sorts before Negative
	})
	return query.RoundColumns(out, 2, "average_sentiment_score"), nil
}

// CreditSentimentByYear collapses a credit-sentiment table to one net
// score per year: the mean sentiment across all non-Stable outlooks,
// weighted by their counts. Oldest year first, matching the trend
// chart it feeds.
func CreditSentimentByYear(sentiment *query.Table) *query.Table {
	out := query.NewTable("rating_year", "average_sentiment_score")

	type yearAgg struct {
		weighted float64
		count    float64
	}
	byYear := make(map[int64]*yearAgg)
	order := make([]int64, 0)
	for _, r := range sentiment.Rows {
		y, _ := r.Float("rating_year")
		n, _ := r.Float("total_ratings_in_year")
		score, _ := r.Float("average_sentiment_score")
		agg, ok := byYear[int64(y)]
		if !ok {
			agg = &yearAgg{}
			byYear[int64(y)] = agg
			order = append(order, int64(y))
		}
		agg.weighted += score * n
		agg.count += n
	}

	for _, y := range order {
		agg := byYear[y]
		if agg.count == 0 {
			continue
		}
		out.Append(query.Row{
			"rating_year":             y,
			"average_sentiment_score": query.Round(agg.weighted/agg.count, 2),
		})
	}
	return query.SortFloatAsc(out, "rating_year")
}
