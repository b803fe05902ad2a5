// Package auth checks the credentials of the engine bridge and of admins against a users file.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"github.com/sauerbraten/jsonfile"
	"golang.org/x/crypto/bcrypt"

	"github.com/sauerbraten/frontline/internal/definitions/privilege"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type Provider interface {
	Authenticate(name, password string) (privilege.ID, error)
}

type inMemoryProvider struct {
	usersByName map[string]*User
}

func NewInMemoryProvider(users []*User) Provider {
	p := &inMemoryProvider{
		usersByName: map[string]*User{},
	}
	for _, u := range users {
		p.usersByName[u.Name] = u
	}
	return p
}

// FromFile reads a JSON list of users. The file may contain // comments.
func FromFile(path string) (Provider, error) {
	var users []*User
	err := jsonfile.ParseFile(path, &users)
	if err != nil {
		return nil, fmt.Errorf("auth: could not read users from %s: %w", path, err)
	}
	return NewInMemoryProvider(users), nil
}

func (p *inMemoryProvider) Authenticate(name, password string) (privilege.ID, error) {
	u, ok := p.usersByName[name]
	if !ok || u.PasswordHash == "" {
		return privilege.None, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return privilege.None, ErrInvalidCredentials
	}
	return u.Privilege, nil
}

// HashPassword returns the bcrypt hash to put into a users file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type cachedProvider struct {
	Provider

	mu       sync.Mutex
	verified map[[sha256.Size]byte]privilege.ID
}

// Cached remembers successful logins, so that clients sending credentials with every request don't pay
// for a bcrypt comparison each time. Failed attempts are not cached.
func Cached(p Provider) Provider {
	return &cachedProvider{
		Provider: p,
		verified: map[[sha256.Size]byte]privilege.ID{},
	}
}

func (c *cachedProvider) Authenticate(name, password string) (privilege.ID, error) {
	key := sha256.Sum256([]byte(name + "\x00" + password))

	c.mu.Lock()
	priv, ok := c.verified[key]
	c.mu.Unlock()
	if ok {
		return priv, nil
	}

	priv, err := c.Provider.Authenticate(name, password)
	if err != nil {
		return priv, err
	}
	c.mu.Lock()
	c.verified[key] = priv
	c.mu.Unlock()
	return priv, nil
}
