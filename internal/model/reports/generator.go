package reports

import (
	"sort"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simmypeet/Xpen/internal/logger"
	"github.com/Simmypeet/Xpen/internal/model/ledger"
)

// untaggedGroup collects the deltas of records without a tag.
const untaggedGroup = "other"

// Report is the per-tag breakdown of one ledger over one period.
type Report struct {
	Ledger  string
	Period  string
	Records []Record
	Total   decimal.Decimal
}

// Record is one tag group of a report.
type Record struct {
	Tag    string
	Amount decimal.Decimal
}

// Periods returns the supported report periods. The empty period means
// the full history.
func Periods() []string {
	return []string{"", "week", "month", "year"}
}

func periodStart(period string) (time.Time, bool) {
	switch period {
	case "":
		return time.Time{}, true
	case "week":
		return now.BeginningOfWeek(), true
	case "month":
		return now.BeginningOfMonth(), true
	case "year":
		return now.BeginningOfYear(), true
	}
	return time.Time{}, false
}

// Generate walks l from its latest record toward older, keeps the records
// on or after the period boundary, and groups their balance deltas by
// tag. Groups are sorted by descending absolute amount.
func Generate(l *ledger.Ledger, period string) (*Report, error) {
	logger.Info("generate report - start",
		zap.String("ledger", l.Name()), zap.String("period", period))
	defer logger.Info("generate report - end")

	after, ok := periodStart(period)
	if !ok {
		return nil, errors.Errorf("report period %q is not supported", period)
	}

	cursor, err := ledger.FromLatest(l)
	if err != nil {
		return nil, errors.Wrap(err, "generate report")
	}

	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for {
		delta, err := cursor.Previous()
		if err != nil {
			return nil, errors.Wrap(err, "generate report")
		}
		if delta == nil || delta.Record.Date.Before(after) {
			break
		}

		tag := delta.Record.Tag
		if tag == "" {
			tag = untaggedGroup
		}
		sums[tag] = sums[tag].Add(delta.Diff)
		total = total.Add(delta.Diff)
	}

	records := make([]Record, 0, len(sums))
	for tag, amount := range sums {
		records = append(records, Record{Tag: tag, Amount: amount})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].Amount.Abs(), records[j].Amount.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return records[i].Tag < records[j].Tag
	})

	return &Report{
		Ledger:  l.Name(),
		Period:  period,
		Records: records,
		Total:   total,
	}, nil
}
