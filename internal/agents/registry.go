package agents

import (
	"sort"
	"sync"
)

// Registry manages loaded agents. Built-in agents registered in code
// survive a Refresh; agents loaded from disk are replaced.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*AgentDefinition
	loader *Loader
}

// NewRegistry creates a new agent registry with default paths
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]*AgentDefinition),
		loader: NewLoader(DefaultPaths()),
	}
}

// NewRegistryWithPaths creates a new agent registry with custom paths
func NewRegistryWithPaths(paths []string) *Registry {
	return &Registry{
		agents: make(map[string]*AgentDefinition),
		loader: NewLoader(paths),
	}
}

// Refresh reloads agents from disk. A disk agent with the same name as
// a built-in shadows it.
func (r *Registry) Refresh() error {
	loaded, err := r.loader.LoadAll()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]*AgentDefinition)
	for name, agent := range r.agents {
		if agent.IsBuiltin {
			next[name] = agent
		}
	}
	for _, agent := range loaded {
		next[agent.Name] = agent
	}
	r.agents = next

	return nil
}

// Get returns an agent by name
func (r *Registry) Get(name string) (*AgentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[name]
	return agent, ok
}

// List returns all loaded agents in name order
func (r *Registry) List() []*AgentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]*AgentDefinition, 0, len(r.agents))
	for _, agent := range r.agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents
}

// Count returns the number of loaded agents
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Register manually adds an agent to the registry.
// Used for the built-in agents and in tests.
func (r *Registry) Register(agent *AgentDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agent.Name] = agent
}

// Unregister removes an agent from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, name)
}

// Names returns the sorted names of all registered agents
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
