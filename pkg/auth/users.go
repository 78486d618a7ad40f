package auth

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Id           string
	Email        string
	FullName     string
	PasswordHash []byte
	Provider     string
}

// UserStore keeps users in memory keyed by email and persists them as a
// gzipped gob file. Saves happen in the background after every mutation.
type UserStore struct {
	mu     sync.RWMutex
	saveMu sync.Mutex
	path   string
	users  map[string]*User
}

const usersFile = "users.gob.gz"

func NewUserStore(dataPath string) *UserStore {
	s := &UserStore{
		path:  dataPath,
		users: make(map[string]*User),
	}
	users, err := loadUsers(path.Join(dataPath, usersFile))
	if err == nil {
		s.users = users
		log.Println("Starting with loaded user list")
	} else {
		log.Println("Starting with empty user list")
	}
	return s
}

func loadUsers(fileName string) (map[string]*User, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer zipReader.Close()

	var users map[string]*User
	if err := gob.NewDecoder(zipReader).Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// saveUsers runs in the background after mutations. The save mutex keeps
// concurrent saves from interleaving writes into the same temp file.
func (s *UserStore) saveUsers() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := os.MkdirAll(s.path, 0755); err != nil {
		return err
	}
	tmpFileName := path.Join(s.path, usersFile+".tmp")

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(zipWriter).Encode(s.users); err != nil {
		return err
	}
	if err := zipWriter.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpFileName, path.Join(s.path, usersFile)); err != nil {
		log.Println("Could not rename temporary users file:", err)
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) CreateUser(email, password, fullName string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("user %s already exists", email)
	}
	user := &User{
		Id:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Provider:     "password",
	}
	s.users[email] = user
	s.mu.Unlock()

	go s.saveUsers()
	return user, nil
}

// UpsertExternalUser records a user signed in through an external identity
// provider. No password is stored for these.
func (s *UserStore) UpsertExternalUser(email, fullName, provider string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("invalid email")
	}
	s.mu.Lock()
	user, exists := s.users[email]
	if !exists {
		user = &User{
			Id:       uuid.New().String(),
			Email:    email,
			FullName: fullName,
			Provider: provider,
		}
		s.users[email] = user
	}
	s.mu.Unlock()

	if !exists {
		go s.saveUsers()
	}
	return user, nil
}

func (s *UserStore) Authenticate(email, password string) (*User, error) {
	s.mu.RLock()
	user, ok := s.users[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok || len(user.PasswordHash) == 0 {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	return user, nil
}

func (s *UserStore) GetByEmail(email string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[normalizeEmail(email)]
	return user, ok
}
