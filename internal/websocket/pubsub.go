package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// PubSubProvider определяет интерфейс для провайдеров публикации/подписки
type PubSubProvider interface {
	// Publish публикует сообщение в указанный канал
	Publish(ctx context.Context, channel string, message []byte) error

	// Subscribe подписывается на канал; канал сообщений закрывается при отмене ctx
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// ClusterMessage передаётся между экземплярами сервиса через Pub/Sub
type ClusterMessage struct {
	// InstanceID отправителя, чтобы не рассылать собственные сообщения повторно
	InstanceID string          `json:"instance_id"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  time.Time       `json:"timestamp"`
}

// RedisPubSub реализует PubSubProvider поверх redis.UniversalClient
type RedisPubSub struct {
	client redis.UniversalClient
}

// NewRedisPubSub создает Redis Pub/Sub провайдер на существующем клиенте
func NewRedisPubSub(client redis.UniversalClient) (*RedisPubSub, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil for RedisPubSub")
	}
	return &RedisPubSub{client: client}, nil
}

// Publish публикует сообщение в канал Redis
func (p *RedisPubSub) Publish(ctx context.Context, channel string, message []byte) error {
	if err := p.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe подписывается на канал Redis и пересылает сообщения до отмены ctx
func (p *RedisPubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := p.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to Redis channel %s: %w", channel, err)
	}
	log.Printf("[RedisPubSub] Подписка на канал '%s' оформлена", channel)

	msgCh := make(chan []byte, 100)
	go func() {
		defer func() {
			pubsub.Close()
			close(msgCh)
			log.Printf("[RedisPubSub] Подписка на канал '%s' закрыта", channel)
		}()

		redisCh := pubsub.Channel()
		for {
			select {
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case msgCh <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return msgCh, nil
}

// ClusterBridge пересылает события хаба между экземплярами сервиса
type ClusterBridge struct {
	hub        HubInterface
	provider   PubSubProvider
	channel    string
	instanceID string
}

// NewClusterBridge создает мост; пустой instanceID заменяется на случайный UUID
func NewClusterBridge(hub HubInterface, provider PubSubProvider, channel, instanceID string) *ClusterBridge {
	if instanceID == "" {
		instanceID = uuid.New().String()
	}
	return &ClusterBridge{
		hub:        hub,
		provider:   provider,
		channel:    channel,
		instanceID: instanceID,
	}
}

// InstanceID возвращает идентификатор этого экземпляра
func (b *ClusterBridge) InstanceID() string {
	return b.instanceID
}

// Publish отправляет готовое сообщение остальным экземплярам
func (b *ClusterBridge) Publish(ctx context.Context, payload []byte) error {
	data, err := json.Marshal(ClusterMessage{
		InstanceID: b.instanceID,
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cluster message: %w", err)
	}
	return b.provider.Publish(ctx, b.channel, data)
}

// Run слушает канал кластера и рассылает чужие сообщения локальным клиентам до отмены ctx
func (b *ClusterBridge) Run(ctx context.Context) error {
	msgCh, err := b.provider.Subscribe(ctx, b.channel)
	if err != nil {
		return err
	}
	log.Printf("[ClusterBridge] Экземпляр %s слушает канал '%s'", b.instanceID, b.channel)
	for raw := range msgCh {
		b.handle(raw)
	}
	return nil
}

func (b *ClusterBridge) handle(raw []byte) {
	var msg ClusterMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[ClusterBridge] Некорректное сообщение кластера: %v", err)
		return
	}
	if msg.InstanceID == b.instanceID {
		return
	}
	b.hub.BroadcastBytes(msg.Payload)
}
