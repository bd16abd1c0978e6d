package permissions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Checker decides whether user may perform the described operation.
type Checker interface {
	Allowed(ctx context.Context, operation, user string) (bool, error)
}

// AllowAllPattern matches every operation.
const AllowAllPattern = "*"

// Policy maps users to the operation patterns they may perform.
type Policy struct {
	Users map[string][]string `yaml:"users" toml:"users" json:"users"`
}

// StaticPolicy grants every operation to each of users.
func StaticPolicy(users ...string) *Policy {
	p := &Policy{Users: make(map[string][]string, len(users))}
	for _, u := range users {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		p.Users[u] = []string{AllowAllPattern}
	}
	return p
}

// Allowed reports whether any of user's patterns matches operation.
func (p *Policy) Allowed(_ context.Context, operation, user string) (bool, error) {
	if p == nil {
		return false, nil
	}
	return matchAny(p.Users[user], operation)
}

// Grant adds patterns for user.
func (p *Policy) Grant(user string, patterns ...string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q for user %q", pattern, user)
		}
	}
	if p.Users == nil {
		p.Users = make(map[string][]string)
	}
	p.Users[user] = append(p.Users[user], patterns...)
	return nil
}

// Names returns the users with at least one pattern, sorted.
func (p *Policy) Names() []string {
	names := make([]string, 0, len(p.Users))
	for name, patterns := range p.Users {
		if len(patterns) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks every pattern.
func (p *Policy) Validate() error {
	for user, patterns := range p.Users {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid pattern %q for user %q", pattern, user)
			}
		}
	}
	return nil
}

// LoadPolicy reads a policy file. The format follows the extension:
// .yaml/.yml, .toml or .json.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}

	policy, err := ParsePolicy(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return policy, nil
}

// ParsePolicy decodes a policy in the given format ("yaml", "yml", "toml" or "json").
func ParsePolicy(data []byte, format string) (*Policy, error) {
	var policy Policy

	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &policy); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &policy); err != nil {
			return nil, err
		}
	case "json":
		if err := sonic.Unmarshal(data, &policy); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported policy format %q", format)
	}

	if policy.Users == nil {
		policy.Users = make(map[string][]string)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &policy, nil
}

func matchAny(patterns []string, operation string) (bool, error) {
	for _, pattern := range patterns {
		if pattern == AllowAllPattern {
			return true, nil
		}
		ok, err := doublestar.Match(pattern, operation)
		if err != nil {
			return false, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
