// Package pipeline runs the country x source extraction matrix.
package pipeline

import (
	"context"
	"time"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/fetcher"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/flatten"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

// Result is everything one (country, source) extraction produced. Failure
// is set when pagination died early; Records then holds the partial set.
type Result struct {
	Records []model.CommentRecord
	Pages   int
	Skipped int
	Failure *fetcher.FetchError
}

// CountryRunner drives one source to completion for one country:
// paginate, flatten, dedup.
type CountryRunner struct {
	source fetcher.Source
	cfg    *config.Config
}

func NewCountryRunner(source fetcher.Source, cfg *config.Config) *CountryRunner {
	return &CountryRunner{source: source, cfg: cfg}
}

// Run paginates until exhaustion or failure, flattening each page as it
// arrives. Comments reappearing on later pages win without changing their
// first-seen position, so the output order stays the source order.
func (r *CountryRunner) Run(ctx context.Context, extractedAt time.Time) Result {
	var (
		records []model.CommentRecord
		index   = make(map[string]int)
		skipped int
	)

	p := fetcher.NewPaginator(r.source, r.cfg)
	for p.Next(ctx) {
		pageRecords, pageSkipped := flatten.Flatten(p.Page(), r.source.Name(), r.source.Country(), extractedAt)
		skipped += pageSkipped

		for _, record := range pageRecords {
			if at, ok := index[record.CommentID]; ok {
				records[at] = record
				continue
			}
			index[record.CommentID] = len(records)
			records = append(records, record)
		}
	}

	return Result{
		Records: records,
		Pages:   p.Pages(),
		Skipped: skipped,
		Failure: p.Err(),
	}
}
