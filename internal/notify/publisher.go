package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/redis/go-redis/v9"
)

const EventRankingCompleted = "BUYOUT_RANKING_COMPLETED"

// RedisClient interface for Redis operations (for testing)
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Ranking is one finished scan, best store first.
type Ranking struct {
	RunID      uuid.UUID
	URL        string
	FinishedAt time.Time
	Stores     []*models.Store
}

type rankingPayload struct {
	RunID      string                `json:"run_id"`
	URL        string                `json:"url"`
	FinishedAt string                `json:"finished_at"`
	StoreCount int                   `json:"store_count"`
	Stores     []models.StoreSummary `json:"stores"`
}

// StreamPublisher appends finished rankings to a Redis stream.
type StreamPublisher struct {
	redis  RedisClient
	stream string
	logger *slog.Logger
}

func NewStreamPublisher(client RedisClient, stream string, logger *slog.Logger) *StreamPublisher {
	return &StreamPublisher{
		redis:  client,
		stream: stream,
		logger: logger.With("component", "notify"),
	}
}

// Publish writes the ranking and returns the stream entry id.
func (p *StreamPublisher) Publish(ctx context.Context, ranking Ranking) (string, error) {
	if ranking.RunID == uuid.Nil {
		ranking.RunID = uuid.New()
	}
	if ranking.FinishedAt.IsZero() {
		ranking.FinishedAt = time.Now().UTC()
	}

	payload := rankingPayload{
		RunID:      ranking.RunID.String(),
		URL:        ranking.URL,
		FinishedAt: ranking.FinishedAt.Format(time.RFC3339),
		StoreCount: len(ranking.Stores),
		Stores:     make([]models.StoreSummary, 0, len(ranking.Stores)),
	}
	for _, s := range ranking.Stores {
		payload.Stores = append(payload.Stores, s.Summary())
	}

	dataJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ranking: %w", err)
	}

	values := map[string]interface{}{
		"data":       string(dataJSON),
		"event_type": EventRankingCompleted,
		"run_id":     payload.RunID,
		"timestamp":  fmt.Sprintf("%d", ranking.FinishedAt.UnixNano()),
	}
	if len(ranking.Stores) > 0 {
		best := ranking.Stores[0]
		values["best_store"] = best.Name
		values["best_price_per_card"] = best.PricePerCard().StringFixed(4)
	}

	id, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to redis: %w", err)
	}

	p.logger.Info("ranking published",
		"stream", p.stream,
		"entry_id", id,
		"run_id", payload.RunID,
		"stores", payload.StoreCount)

	return id, nil
}
