package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/flowershop/internal/client"
	"github.com/example/flowershop/internal/infrastructure/storage"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNoProfile   = errors.New("no cached profile")
)

// User is the shopper's profile.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Phone    string `json:"phone"`
}

// Address is one entry in the shopper's address book.
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Region    string `json:"region"`
	Detail    string `json:"detail"`
	IsDefault bool   `json:"is_default"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service owns the login lifecycle, the cached profile and the address
// book. Its TokenStore doubles as the HTTP client's token source, so a
// 401 anywhere in the app logs the shopper out.
type Service struct {
	client  *client.Client
	storage storage.Storage
	tokens  *TokenStore
}

func NewService(c *client.Client, st storage.Storage, tokens *TokenStore) *Service {
	return &Service{client: c, storage: st, tokens: tokens}
}

// Login exchanges credentials for a bearer token and caches the profile.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	var resp loginResponse
	if err := s.client.Post(ctx, client.PathLogin, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login failed: backend returned no token")
	}

	if err := s.tokens.save(ctx, resp.Token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUserInfo, resp.User); err != nil {
		log.Printf("[Session] Failed to cache profile: %v", err)
	}
	return &resp.User, nil
}

// Logout drops the token and cached profile. Purely local; the token is
// stateless so there is nothing to revoke.
func (s *Service) Logout(ctx context.Context) {
	s.tokens.Clear(ctx)
}

func (s *Service) IsLoggedIn(ctx context.Context) bool {
	return s.tokens.Token(ctx) != ""
}

// Profile fetches the current profile, falling back to the cached copy
// when the backend is unreachable.
func (s *Service) Profile(ctx context.Context) (*User, error) {
	if !s.IsLoggedIn(ctx) {
		return nil, ErrNotLoggedIn
	}

	var user User
	err := s.client.Get(ctx, client.PathProfile, nil, &user)
	if err == nil {
		if serr := s.storage.Set(ctx, storage.KeyUserInfo, user); serr != nil {
			log.Printf("[Session] Failed to cache profile: %v", serr)
		}
		return &user, nil
	}
	if !errors.Is(err, client.ErrNetwork) && !errors.Is(err, client.ErrServer) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	log.Printf("[Session] Backend unavailable, using cached profile: %v", err)
	found, gerr := s.storage.Get(ctx, storage.KeyUserInfo, &user)
	if gerr != nil {
		return nil, gerr
	}
	if !found {
		return nil, ErrNoProfile
	}
	return &user, nil
}

// UpdateProfile pushes profile changes and refreshes the cache.
func (s *Service) UpdateProfile(ctx context.Context, user User) (*User, error) {
	var updated User
	if err := s.client.Put(ctx, client.PathProfile, user, &updated); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUserInfo, updated); err != nil {
		log.Printf("[Session] Failed to cache profile: %v", err)
	}
	return &updated, nil
}

// Addresses lists the shopper's address book.
func (s *Service) Addresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := s.client.Get(ctx, client.PathAddresses, nil, &addresses); err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// AddAddress creates a new address book entry.
func (s *Service) AddAddress(ctx context.Context, addr Address) (*Address, error) {
	var created Address
	if err := s.client.Post(ctx, client.PathAddresses, addr, &created); err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}
	s.cacheIfDefault(ctx, created)
	return &created, nil
}

// UpdateAddress replaces an existing entry.
func (s *Service) UpdateAddress(ctx context.Context, addr Address) (*Address, error) {
	if addr.ID == "" {
		return nil, fmt.Errorf("address id is required")
	}
	var updated Address
	if err := s.client.Put(ctx, client.PathAddresses+"/"+addr.ID, addr, &updated); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	s.cacheIfDefault(ctx, updated)
	return &updated, nil
}

// DeleteAddress removes an entry.
func (s *Service) DeleteAddress(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, client.PathAddresses+"/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return nil
}

// SetDefaultAddress marks one entry as the delivery default and caches
// it locally for checkout prefill.
func (s *Service) SetDefaultAddress(ctx context.Context, id string) (*Address, error) {
	var updated Address
	if err := s.client.Put(ctx, client.PathAddresses+"/"+id+"/default", nil, &updated); err != nil {
		return nil, fmt.Errorf("failed to set default address: %w", err)
	}
	updated.IsDefault = true
	if err := s.storage.Set(ctx, storage.KeyAddress, updated); err != nil {
		log.Printf("[Session] Failed to cache default address: %v", err)
	}
	return &updated, nil
}

// DefaultAddress returns the locally cached default delivery address.
func (s *Service) DefaultAddress(ctx context.Context) (*Address, bool, error) {
	var addr Address
	found, err := s.storage.Get(ctx, storage.KeyAddress, &addr)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &addr, true, nil
}

func (s *Service) cacheIfDefault(ctx context.Context, addr Address) {
	if !addr.IsDefault {
		return
	}
	if err := s.storage.Set(ctx, storage.KeyAddress, addr); err != nil {
		log.Printf("[Session] Failed to cache default address: %v", err)
	}
}
