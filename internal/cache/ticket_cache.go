package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/support-hub/helpdesk/internal/domain"
	"github.com/support-hub/helpdesk/internal/persistence"
)

const ticketKeyPrefix = "ticket:"

// TicketCache is a read-through cache for single-ticket lookups. Every
// successful mutation invalidates the entry so readers never observe a
// stale status or assignment for longer than one round trip.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketCache builds the cache; a nil or unreachable client degrades
// to cache misses.
func NewTicketCache(r *persistence.Redis, ttl time.Duration, logger *zap.Logger) *TicketCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &TicketCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached ticket, or (nil, false) on a miss.
func (c *TicketCache) Get(ctx context.Context, id string) (*domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, ticketKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("ticket cache get failed", zap.String("ticket_id", id), zap.Error(err))
		}
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		c.logger.Warn("ticket cache entry corrupt", zap.String("ticket_id", id), zap.Error(err))
		return nil, false
	}
	return &ticket, true
}

// Set stores the ticket under its ID with the configured TTL.
func (c *TicketCache) Set(ctx context.Context, ticket *domain.Ticket) {
	if c == nil || c.client == nil || ticket == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, ticketKeyPrefix+ticket.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket cache set failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

// Invalidate drops the cached entry for the given ticket.
func (c *TicketCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, ticketKeyPrefix+id).Err(); err != nil {
		c.logger.Debug("ticket cache invalidate failed", zap.String("ticket_id", id), zap.Error(err))
	}
}
