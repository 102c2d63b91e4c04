package scriptform

import (
	"context"
	"fmt"
)

// OptionLoader fetches the auxiliary sets behind the remote-lookup input
// kinds. *api.Client satisfies it.
type OptionLoader interface {
	ActiveDeployments(ctx context.Context, service string) ([]string, error)
	EnrollableKeys(ctx context.Context, service string) ([]string, error)
}

// OptionCache memoizes option-set fetches per service name for the lifetime
// of the console session. Fetches are lazy: callers only ask when the active
// form actually contains the corresponding input kind.
type OptionCache struct {
	loader      OptionLoader
	deployments map[string][]string
	keys        map[string][]string
}

func NewOptionCache(loader OptionLoader) *OptionCache {
	return &OptionCache{
		loader:      loader,
		deployments: make(map[string][]string),
		keys:        make(map[string][]string),
	}
}

// Deployments returns the active-deployment set for a service, fetching once.
func (c *OptionCache) Deployments(ctx context.Context, service string) ([]string, error) {
	if cached, ok := c.deployments[service]; ok {
		return cached, nil
	}
	out, err := c.loader.ActiveDeployments(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("deployments for %q: %w", service, err)
	}
	c.deployments[service] = out
	return out, nil
}

// Keys returns the enrollable key identities for a service, fetching once.
func (c *OptionCache) Keys(ctx context.Context, service string) ([]string, error) {
	if cached, ok := c.keys[service]; ok {
		return cached, nil
	}
	out, err := c.loader.EnrollableKeys(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("keys for %q: %w", service, err)
	}
	c.keys[service] = out
	return out, nil
}
