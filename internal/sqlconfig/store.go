package sqlconfig

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/upskilling-lab/mcp-toolserver/internal/config"
	mcpErrors "github.com/upskilling-lab/mcp-toolserver/pkg/errors"
)

// Profile is an immutable named SQL Server connection profile. Secrets are
// referenced by environment variable name and resolved per connection
// attempt, never stored on the profile.
type Profile struct {
	Name                   string
	DisplayName            string
	Server                 string
	Database               string
	Auth                   string
	Username               string
	UsernameEnv            string
	PasswordEnv            string
	Encrypt                bool
	TrustServerCertificate bool
	Timeout                time.Duration
	Description            string
}

// Credentials holds connection credentials resolved for a single attempt
type Credentials struct {
	Username string
	Password string
}

// ResolveCredentials reads the referenced environment variables at call
// time. The environment value takes precedence over a literal username;
// passwords only ever come from the environment.
func (p *Profile) ResolveCredentials() Credentials {
	creds := Credentials{Username: p.Username}
	if p.UsernameEnv != "" {
		if v := os.Getenv(p.UsernameEnv); v != "" {
			creds.Username = v
		}
	}
	if p.PasswordEnv != "" {
		creds.Password = os.Getenv(p.PasswordEnv)
	}
	return creds
}

// Store holds the profile set and the active profile selector. Profiles are
// immutable after construction; the selector is the only mutable field and
// is guarded so concurrent readers always observe a fully written name. The
// lock is never held across a database call.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	order    []string
	active   string
}

// NewStore builds a Store from the validated configuration
func NewStore(cfg config.SQLConfig) (*Store, error) {
	s := &Store{
		profiles: make(map[string]*Profile, len(cfg.Profiles)),
	}

	for _, pc := range cfg.Profiles {
		if _, exists := s.profiles[pc.Name]; exists {
			return nil, fmt.Errorf("duplicate profile name found: %s", pc.Name)
		}
		s.profiles[pc.Name] = &Profile{
			Name:                   pc.Name,
			DisplayName:            pc.DisplayName,
			Server:                 pc.Server,
			Database:               pc.Database,
			Auth:                   pc.Auth,
			Username:               pc.Username,
			UsernameEnv:            pc.UsernameEnv,
			PasswordEnv:            pc.PasswordEnv,
			Encrypt:                pc.Encrypt,
			TrustServerCertificate: pc.TrustServerCertificate,
			Timeout:                time.Duration(pc.Timeout) * time.Second,
			Description:            pc.Description,
		}
		s.order = append(s.order, pc.Name)
	}

	if _, ok := s.profiles[cfg.Active]; !ok {
		return nil, fmt.Errorf("%w: %s", mcpErrors.ErrUnknownProfile, cfg.Active)
	}
	s.active = cfg.Active

	return s, nil
}

// List returns all profiles in configuration order
func (s *Store) List() []*Profile {
	profiles := make([]*Profile, 0, len(s.order))
	for _, name := range s.order {
		profiles = append(profiles, s.profiles[name])
	}
	return profiles
}

// ActiveName returns the name of the currently selected profile
func (s *Store) ActiveName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Active returns the currently selected profile
func (s *Store) Active() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[s.active]
}

// SetActive switches the selector to the named profile and returns the
// previous selection. An unknown name leaves the selector unchanged.
func (s *Store) SetActive(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return "", fmt.Errorf("%w: %s", mcpErrors.ErrUnknownProfile, name)
	}
	old := s.active
	s.active = name
	return old, nil
}
