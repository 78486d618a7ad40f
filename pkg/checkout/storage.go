package checkout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

type OrderStorage interface {
	SaveOrder(order *Order) error
	ListByUser(userId string) ([]*Order, error)
}

// DiskOrderStorage writes one JSON file per order under a folder per user,
// which makes the profile order history a directory listing.
type DiskOrderStorage struct {
	mu   sync.Mutex
	Path string
}

func NewDiskOrderStorage(path string) *DiskOrderStorage {
	return &DiskOrderStorage{Path: path}
}

func (s *DiskOrderStorage) SaveOrder(order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder := filepath.Join(s.Path, order.UserId)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(folder, order.Id+".json"))
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(order)
}

func (s *DiskOrderStorage) ListByUser(userId string) ([]*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder := filepath.Join(s.Path, userId)
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Order{}, nil
		}
		return nil, err
	}

	orders := make([]*Order, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		file, err := os.Open(filepath.Join(folder, entry.Name()))
		if err != nil {
			continue
		}
		var order Order
		err = json.NewDecoder(file).Decode(&order)
		file.Close()
		if err != nil {
			continue
		}
		orders = append(orders, &order)
	}
	// newest first for the profile view
	slices.SortFunc(orders, func(a, b *Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return orders, nil
}
