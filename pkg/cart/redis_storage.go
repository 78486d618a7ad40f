package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/slask-store/pkg/types"
)

const cartTTL = time.Hour * 24 * 14

// RedisStorage keeps session carts in redis with a sliding two week expiry.
// Mutations are serialized per process with a single mutex, the same
// single-writer assumption the disk storage makes.
type RedisStorage struct {
	mu     sync.Mutex
	client *redis.Client
	ctx    context.Context
}

func NewRedisStorage(addr, password string, db int) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ctx: context.Background(),
	}
}

func cartKey(cartId int) string {
	return fmt.Sprintf("cart:%d", cartId)
}

func (s *RedisStorage) GetNextCartId() (int, error) {
	id, err := s.client.Incr(s.ctx, "cart:next_id").Result()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (s *RedisStorage) loadCart(cartId int) *Cart {
	data, err := s.client.Get(s.ctx, cartKey(cartId)).Result()
	if err != nil {
		return emptyCart(cartId)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return emptyCart(cartId)
	}
	if cart.Items == nil {
		cart.Items = []Line{}
	}
	return &cart
}

func (s *RedisStorage) saveCart(cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(s.ctx, cartKey(cart.Id), data, cartTTL).Err()
}

func (s *RedisStorage) GetCart(cartId int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCart(cartId), nil
}

func (s *RedisStorage) AddItem(cartId int, line Line, quantity uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	if err := cart.AddItem(line, quantity); err != nil {
		return nil, err
	}
	return cart, s.saveCart(cart)
}

func (s *RedisStorage) SetQuantity(cartId int, id types.ItemId, quantity uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	if err := cart.SetQuantity(id, quantity); err != nil {
		return nil, err
	}
	return cart, s.saveCart(cart)
}

func (s *RedisStorage) RemoveItem(cartId int, id types.ItemId) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	cart.RemoveItem(id)
	return cart, s.saveCart(cart)
}

func (s *RedisStorage) Clear(cartId int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	cart.Clear()
	return cart, s.saveCart(cart)
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
