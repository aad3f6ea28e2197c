package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/tournament-ledger-poc/pkg/contracts/events"
	"github.com/radieske/tournament-ledger-poc/pkg/contracts/topics"
)

// KafkaPublisher publica os eventos do ledger. Um writer sem tópico fixo;
// o tópico vai por mensagem
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{Topic: topics.BetPlaced, Value: b})
}

func (p *KafkaPublisher) PublishMatchSettled(ctx context.Context, e events.MatchSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{Topic: topics.MatchSettled, Value: b})
}

func (p *KafkaPublisher) PublishLedgerSynced(ctx context.Context, e events.LedgerSynced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{Topic: topics.LedgerSynced, Value: b})
}
