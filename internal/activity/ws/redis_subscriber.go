package ws

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// do feed e repassa cada registro recebido pros clientes WebSocket conectados.
// O payload já chega serializado do activity-worker; o hub não reserializa.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				if err := sub.Close(); err != nil {
					log.Warn("ws subscriber close", zap.Error(err))
				}
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				hub.Broadcast([]byte(msg.Payload))
			}
		}
	}()
}
