package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matst80/slask-store/pkg/types"
)

type Storage interface {
	GetCart(cartId int) (*Cart, error)
	AddItem(cartId int, line Line, quantity uint) (*Cart, error)
	SetQuantity(cartId int, id types.ItemId, quantity uint) (*Cart, error)
	RemoveItem(cartId int, id types.ItemId) (*Cart, error)
	Clear(cartId int) (*Cart, error)
}

type IdStorage interface {
	GetNextCartId() (int, error)
}

// DiskStorage keeps one JSON file per cart, sharded a thousand carts per
// folder. The mutex serializes the read-modify-write cycle so concurrent
// requests for the same session cannot drop each others changes.
type DiskStorage struct {
	mu   sync.Mutex
	Path string
}

func NewDiskStorage(path string) *DiskStorage {
	return &DiskStorage{Path: path}
}

func cartFolder(id int) (string, string) {
	return fmt.Sprintf("%d", id/1000), fmt.Sprintf("%d.json", id%1000)
}

func (s *DiskStorage) readFile(path string, dest any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(dest)
}

func (s *DiskStorage) writeFile(path string, src any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(src)
}

func (s *DiskStorage) GetNextCartId() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := 0
	idFile := filepath.Join(s.Path, "next_id")
	if err := s.readFile(idFile, &id); err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return 0, err
	}
	if err := s.writeFile(idFile, id+1); err != nil {
		return 0, err
	}
	return id + 1, nil
}

func (s *DiskStorage) loadCart(cartId int) *Cart {
	folder, filename := cartFolder(cartId)
	var cart Cart
	if err := s.readFile(filepath.Join(s.Path, folder, filename), &cart); err != nil {
		return emptyCart(cartId)
	}
	if cart.Items == nil {
		cart.Items = []Line{}
	}
	return &cart
}

func (s *DiskStorage) saveCart(cart *Cart) error {
	folder, filename := cartFolder(cart.Id)
	if err := os.MkdirAll(filepath.Join(s.Path, folder), 0755); err != nil {
		return err
	}
	return s.writeFile(filepath.Join(s.Path, folder, filename), cart)
}

func (s *DiskStorage) GetCart(cartId int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCart(cartId), nil
}

func (s *DiskStorage) AddItem(cartId int, line Line, quantity uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	if err := cart.AddItem(line, quantity); err != nil {
		return nil, err
	}
	return cart, s.saveCart(cart)
}

func (s *DiskStorage) SetQuantity(cartId int, id types.ItemId, quantity uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	if err := cart.SetQuantity(id, quantity); err != nil {
		return nil, err
	}
	return cart, s.saveCart(cart)
}

func (s *DiskStorage) RemoveItem(cartId int, id types.ItemId) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	cart.RemoveItem(id)
	return cart, s.saveCart(cart)
}

func (s *DiskStorage) Clear(cartId int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.loadCart(cartId)
	cart.Clear()
	return cart, s.saveCart(cart)
}
