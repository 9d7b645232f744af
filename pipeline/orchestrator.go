package pipeline

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/events"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/fetcher"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/metrics"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/storage"
)

// Orchestrator walks the configured countries x the three sources, runs
// each pair in isolation and forwards every batch to the sink as soon as
// the pair finishes, so peak memory stays at one batch.
type Orchestrator struct {
	cfg       *config.Config
	sink      storage.Sink
	publisher *events.NATSPublisher
	runID     string

	mu      sync.Mutex
	summary model.RunSummary
}

func NewOrchestrator(cfg *config.Config, sink storage.Sink, publisher *events.NATSPublisher) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		sink:      sink,
		publisher: publisher,
		runID:     uuid.New().String(),
	}
}

func (o *Orchestrator) RunID() string { return o.runID }

// Snapshot returns a copy of the live summary for the status endpoint.
func (o *Orchestrator) Snapshot() model.RunSummary {
	o.mu.Lock()
	defer o.mu.Unlock()

	summary := o.summary
	summary.Outcomes = append([]model.PairOutcome(nil), o.summary.Outcomes...)
	return summary
}

// Run executes the full matrix. The extraction timestamp is captured once
// here: every record of the run carries the same extracted_at.
func (o *Orchestrator) Run(ctx context.Context) model.RunSummary {
	start := time.Now()
	extractedAt := start.UTC()

	o.mu.Lock()
	o.summary = model.RunSummary{RunID: o.runID, ExtractedAt: extractedAt}
	o.mu.Unlock()

	pairs := o.buildPairs()
	log.Printf("Starting run %s: %d pairs, extracted_at=%s",
		o.runID, len(pairs), extractedAt.Format(time.RFC3339))

	if o.cfg.WorkerCount > 1 && len(pairs) > 1 {
		o.runParallel(ctx, pairs, extractedAt)
	} else {
		for _, p := range pairs {
			o.record(o.runPair(ctx, p, extractedAt))
		}
	}

	return o.finalize(start)
}

type pair struct {
	country string
	source  model.SourceType
	account config.CountryAccount
}

func (o *Orchestrator) buildPairs() []pair {
	var pairs []pair
	for _, country := range o.cfg.Countries() {
		account := o.cfg.Accounts[country]
		for _, source := range model.AllSources() {
			if name, ok := requiredID(source, account); !ok {
				log.Printf("Skipping %s/%s: no %s configured", country, source, name)
				continue
			}
			pairs = append(pairs, pair{country: country, source: source, account: account})
		}
	}
	return pairs
}

func requiredID(source model.SourceType, account config.CountryAccount) (string, bool) {
	switch source {
	case model.SourceAds:
		return "account_id", account.AccountID != ""
	case model.SourceFeedPost:
		return "page_id", account.PageID != ""
	case model.SourceMedia:
		return "ig_business_account_id", account.IGBusinessAccountID != ""
	}
	return "", false
}

func (o *Orchestrator) newSource(p pair) fetcher.Source {
	switch p.source {
	case model.SourceAds:
		return fetcher.NewAdsSource(o.cfg, p.country, p.account)
	case model.SourceFeedPost:
		return fetcher.NewFeedPostSource(o.cfg, p.country, p.account)
	default:
		return fetcher.NewMediaSource(o.cfg, p.country, p.account)
	}
}

func (o *Orchestrator) runPair(ctx context.Context, p pair, extractedAt time.Time) model.PairOutcome {
	started := time.Now()
	log.Printf("Extracting %s/%s", p.country, p.source)

	result := NewCountryRunner(o.newSource(p), o.cfg).Run(ctx, extractedAt)

	outcome := model.PairOutcome{
		RunID:   o.runID,
		Country: p.country,
		Source:  p.source,
		Records: len(result.Records),
		Skipped: result.Skipped,
		Pages:   result.Pages,
	}

	metrics.CommentsFetched.WithLabelValues(string(p.source), p.country).Add(float64(len(result.Records)))
	metrics.PagesFetched.WithLabelValues(string(p.source), p.country).Add(float64(result.Pages))
	metrics.MalformedSkipped.WithLabelValues(string(p.source), p.country).Add(float64(result.Skipped))

	if result.Failure != nil {
		outcome.FetchError = result.Failure.Error()
		metrics.SourceErrors.WithLabelValues(string(p.source), p.country).Inc()
		log.Printf("Fetch failed for %s/%s after %d pages, keeping %d partial records: %v",
			p.country, p.source, result.Pages, len(result.Records), result.Failure)
	}

	// A pair that died mid-pagination still ships what it already fetched.
	if len(result.Records) > 0 {
		if err := o.appendWithRetry(ctx, p.source.Table(), result.Records); err != nil {
			outcome.SinkError = err.Error()
			log.Printf("Batch for %s/%s lost after sink retries: %v", p.country, p.source, err)
		}
	}

	outcome.Success = outcome.FetchError == "" && outcome.SinkError == ""
	outcome.FinishedAt = time.Now()

	duration := time.Since(started)
	metrics.PairDuration.WithLabelValues(string(p.source), p.country).Observe(duration.Seconds())
	log.Printf("Finished %s/%s: %d records, %d skipped, %d pages in %v",
		p.country, p.source, outcome.Records, outcome.Skipped, outcome.Pages, duration)

	if err := o.publisher.PublishOutcome(outcome); err != nil {
		log.Printf("Failed to publish outcome for %s/%s: %v", p.country, p.source, err)
	}

	return outcome
}

func (o *Orchestrator) appendWithRetry(ctx context.Context, table string, records []model.CommentRecord) error {
	var err error
	for attempt := 0; attempt <= o.cfg.SinkRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying append to %s (attempt %d/%d): %v", table, attempt, o.cfg.SinkRetries, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * o.cfg.SinkRetryDelay):
			}
		}

		if err = o.sink.Append(ctx, table, records); err == nil {
			metrics.SinkWrites.WithLabelValues(table, "ok").Inc()
			return nil
		}
	}

	metrics.SinkWrites.WithLabelValues(table, "error").Inc()
	return err
}

func (o *Orchestrator) record(outcome model.PairOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.summary.Outcomes = append(o.summary.Outcomes, outcome)
	o.summary.Records += outcome.Records
	o.summary.Skipped += outcome.Skipped
	if outcome.Success {
		o.summary.Succeeded++
	} else {
		o.summary.Failed++
	}
}

func (o *Orchestrator) runParallel(ctx context.Context, pairs []pair, extractedAt time.Time) {
	workers := o.cfg.WorkerCount
	if workers > len(pairs) {
		workers = len(pairs)
	}
	log.Printf("Running %d pairs on %d workers", len(pairs), workers)

	jobs := make(chan pair)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				o.record(o.runPair(ctx, p, extractedAt))
			}
		}()
	}

	for _, p := range pairs {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
}

func (o *Orchestrator) finalize(start time.Time) model.RunSummary {
	o.mu.Lock()

	sort.Slice(o.summary.Outcomes, func(i, j int) bool {
		a, b := o.summary.Outcomes[i], o.summary.Outcomes[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Source < b.Source
	})
	o.summary.DurationMS = time.Since(start).Milliseconds()
	o.summary.FinishedAt = time.Now()

	summary := o.summary
	summary.Outcomes = append([]model.PairOutcome(nil), o.summary.Outcomes...)
	o.mu.Unlock()

	log.Printf("Run %s finished: %d/%d pairs succeeded, %d records, %d skipped in %v",
		o.runID, summary.Succeeded, summary.Succeeded+summary.Failed,
		summary.Records, summary.Skipped, time.Duration(summary.DurationMS)*time.Millisecond)
	for _, oc := range summary.Outcomes {
		if oc.Success {
			log.Printf("Pair %s/%s: ok, %d records from %d pages", oc.Country, oc.Source, oc.Records, oc.Pages)
			continue
		}
		log.Printf("Pair %s/%s: FAILED, kept %d records (fetch: %s, sink: %s)",
			oc.Country, oc.Source, oc.Records, orDash(oc.FetchError), orDash(oc.SinkError))
	}

	if err := o.publisher.PublishSummary(summary); err != nil {
		log.Printf("Failed to publish run summary: %v", err)
	}

	return summary
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
