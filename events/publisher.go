package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/model"
)

const (
	subjectOutcome = "comments.extract.result"
	subjectSummary = "comments.extract.summary"
)

// NATSPublisher emits per-pair outcomes and the final run summary.
// A nil publisher is valid and drops everything.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to NATS for outcome events.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	return &NATSPublisher{conn: nc}, nil
}

// Close closes the NATS connection.
func (np *NATSPublisher) Close() {
	if np != nil && np.conn != nil {
		np.conn.Close()
	}
}

// PublishOutcome publishes one pair's result.
func (np *NATSPublisher) PublishOutcome(outcome model.PairOutcome) error {
	if np == nil || np.conn == nil {
		return nil
	}

	message := OutcomeMessage{
		Outcome:   outcome,
		Timestamp: time.Now(),
		Source:    "meta-comments-pipeline",
		Version:   "1.0",
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	if err := np.conn.Publish(subjectOutcome, data); err != nil {
		return err
	}

	log.Printf("Published outcome for %s/%s to NATS", outcome.Country, outcome.Source)
	return nil
}

// PublishSummary publishes the end-of-run report.
func (np *NATSPublisher) PublishSummary(summary model.RunSummary) error {
	if np == nil || np.conn == nil {
		return nil
	}

	message := SummaryMessage{
		Summary:   summary,
		Timestamp: time.Now(),
		Source:    "meta-comments-pipeline",
		Version:   "1.0",
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	if err := np.conn.Publish(subjectSummary, data); err != nil {
		return err
	}

	log.Printf("Published run summary to NATS: %d records across %d pairs",
		summary.Records, len(summary.Outcomes))
	return nil
}

// OutcomeMessage is the per-pair structure sent to NATS.
type OutcomeMessage struct {
	Outcome   model.PairOutcome `json:"outcome"`
	Timestamp time.Time         `json:"timestamp"`
	Source    string            `json:"source"`
	Version   string            `json:"version"`
}

// SummaryMessage is the end-of-run structure sent to NATS.
type SummaryMessage struct {
	Summary   model.RunSummary `json:"summary"`
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
	Version   string           `json:"version"`
}
