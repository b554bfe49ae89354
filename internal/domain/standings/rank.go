package standings

import (
	"sort"

	"github.com/okian/podium/internal/domain/model"
)

// DefaultTopN is the podium size used when no override is given.
const DefaultTopN = 3

// TopN orders cohort records by the metric descending with an
// ascending bodyweight tie-break, then truncates to n. Unparseable
// metric and bodyweight values count as 0, so a missing bodyweight
// sorts as the lightest and wins ties. The sort is stable, so records
// equal on both keys keep their input order.
func TopN(records []model.Record, metric model.Metric, n int) []model.Record {
	if n < 0 {
		n = 0
	}
	sorted := make([]model.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi := model.Numeric(sorted[i].Value(metric))
		vj := model.Numeric(sorted[j].Value(metric))
		if vi != vj {
			return vi > vj
		}
		return model.Numeric(sorted[i].Bodyweight) < model.Numeric(sorted[j].Bodyweight)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
