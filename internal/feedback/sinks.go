package feedback

import (
	"context"

	"tapboard/internal/grid"
	"tapboard/internal/log"
	"tapboard/internal/pubsub"
)

// LogSink writes every pulse to the debug log.
type LogSink struct{}

func (LogSink) Notify(cell grid.Cell, kind Kind) {
	log.Debug(log.CatFeedback, "pulse", "row", cell.Row, "col", cell.Col, "kind", kind)
}

func (LogSink) CommitResult(success bool) {
	log.Debug(log.CatFeedback, "commit result", "success", success)
}

// Result is the payload of a commit-result broker event.
type Result struct {
	Success bool
}

// BrokerSink publishes pulses and commit results to pubsub brokers so
// UI components can react (cell flash, toast). Publishing is
// non-blocking; slow subscribers drop events rather than stalling the
// input path.
type BrokerSink struct {
	pulses  *pubsub.Broker[Pulse]
	results *pubsub.Broker[Result]
}

// NewBrokerSink creates a broker-backed sink.
func NewBrokerSink() *BrokerSink {
	return &BrokerSink{
		pulses:  pubsub.NewBroker[Pulse](),
		results: pubsub.NewBroker[Result](),
	}
}

func (s *BrokerSink) Notify(cell grid.Cell, kind Kind) {
	s.pulses.Publish(pubsub.CreatedEvent, Pulse{Cell: cell, Kind: kind})
}

func (s *BrokerSink) CommitResult(success bool) {
	s.results.Publish(pubsub.CreatedEvent, Result{Success: success})
}

// SubscribePulses returns a pulse subscription tied to ctx.
func (s *BrokerSink) SubscribePulses(ctx context.Context) <-chan pubsub.Event[Pulse] {
	return s.pulses.Subscribe(ctx)
}

// SubscribeResults returns a commit-result subscription tied to ctx.
func (s *BrokerSink) SubscribeResults(ctx context.Context) <-chan pubsub.Event[Result] {
	return s.results.Subscribe(ctx)
}

// PulseListener returns a continuous listener for pulse events.
func (s *BrokerSink) PulseListener(ctx context.Context) *pubsub.ContinuousListener[Pulse] {
	return pubsub.NewContinuousListener(ctx, s.pulses)
}

// ResultListener returns a continuous listener for commit-result events.
func (s *BrokerSink) ResultListener(ctx context.Context) *pubsub.ContinuousListener[Result] {
	return pubsub.NewContinuousListener(ctx, s.results)
}

// Close shuts down the underlying brokers.
func (s *BrokerSink) Close() {
	s.pulses.Close()
	s.results.Close()
}
