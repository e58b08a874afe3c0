// Package cache almacenes compartidos entre instancias del API (Redis).
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/encomiendas-api/internal/infrastructure/hka"
)

const tokenKey = "hka:token"

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr      string // host:puerto
	Password  string
	DB        int
	KeyPrefix string // prefijo de todas las claves, p.ej. "encomiendas:"
}

// RedisTokenStore guarda el token de HKA en Redis para que todas las instancias
// compartan una sola sesión con el proveedor. El vencimiento lo maneja Redis (SET ... EX).
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

var _ hka.TokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore abre la conexión y verifica con PING.
func NewRedisTokenStore(cfg RedisConfig) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return NewRedisTokenStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisTokenStoreWithClient usa un cliente ya creado (tests o cliente compartido).
func NewRedisTokenStoreWithClient(client *redis.Client, keyPrefix string) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: keyPrefix + tokenKey}
}

func (s *RedisTokenStore) Get(ctx context.Context) (string, bool, error) {
	tok, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis: leer token: %w", err)
	}
	return tok, tok != "", nil
}

func (s *RedisTokenStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis: guardar token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: borrar token: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}
