package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mireles/ontoground/internal/grounding"
	"github.com/mireles/ontoground/internal/llm"
)

const mapperMarkdown = `---
name: disease-mapper
description: Maps disease mentions to MONDO
tools:
  - search_ontology
vocabularies:
  Disease: mondo
  Phenotype: hp
max_iterations: 5
---

You map disease mentions to MONDO terms.
`

func TestParseAgentMarkdown(t *testing.T) {
	agent, err := ParseAgentMarkdown(mapperMarkdown)
	if err != nil {
		t.Fatalf("ParseAgentMarkdown() error = %v", err)
	}
	if agent.Name != "disease-mapper" {
		t.Errorf("Name = %q", agent.Name)
	}
	if len(agent.Tools) != 1 || agent.Tools[0] != "search_ontology" {
		t.Errorf("Tools = %v", agent.Tools)
	}
	if agent.Vocabularies["Phenotype"] != "hp" {
		t.Errorf("Vocabularies = %v", agent.Vocabularies)
	}
	if agent.GetMaxIterations() != 5 {
		t.Errorf("GetMaxIterations() = %d", agent.GetMaxIterations())
	}
	if !strings.Contains(agent.SystemPrompt, "MONDO terms") {
		t.Errorf("SystemPrompt = %q", agent.SystemPrompt)
	}
}

func TestParseAgentMarkdownCRLF(t *testing.T) {
	content := strings.ReplaceAll(mapperMarkdown, "\n", "\r\n")
	agent, err := ParseAgentMarkdown(content)
	if err != nil {
		t.Fatalf("ParseAgentMarkdown() error = %v", err)
	}
	if agent.Name != "disease-mapper" {
		t.Errorf("Name = %q", agent.Name)
	}
	if !strings.Contains(agent.SystemPrompt, "MONDO terms") {
		t.Errorf("SystemPrompt = %q", agent.SystemPrompt)
	}
}

func TestParseAgentMarkdownErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"no frontmatter", "Just a prompt body.", ErrNoFrontmatter},
		{"unterminated frontmatter", "---\nname: x\nno closing marker", ErrNoFrontmatter},
		{"missing name", "---\ndescription: nameless\n---\nPrompt.", ErrMissingName},
		{"missing prompt", "---\nname: empty-agent\n---\n", ErrMissingSystemPrompt},
		{"reserved name", "---\nname: search\n---\nPrompt.", ErrReservedName},
		{"bad yaml", "---\nname: [unclosed\n---\nPrompt.", ErrInvalidFrontmatter},
		{"vocabulary handle with whitespace", "---\nname: x\nvocabularies:\n  Disease: 'mon do'\n---\nPrompt.", ErrInvalidVocabulary},
		{"empty vocabulary handle", "---\nname: x\nvocabularies:\n  Disease: ''\n---\nPrompt.", ErrInvalidVocabulary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAgentMarkdown(tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mapper.md"), []byte(mapperMarkdown), 0644); err != nil {
		t.Fatal(err)
	}
	// Broken files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader([]string{dir, filepath.Join(dir, "missing")})
	agents, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(agents) != 1 {
		t.Fatalf("LoadAll() returned %d agents, want 1", len(agents))
	}
	if agents[0].Name != "disease-mapper" {
		t.Errorf("Name = %q", agents[0].Name)
	}
	if agents[0].FilePath != filepath.Join(dir, "mapper.md") {
		t.Errorf("FilePath = %q", agents[0].FilePath)
	}
}

func TestRegistryRefreshKeepsBuiltins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mapper.md"), []byte(mapperMarkdown), 0644); err != nil {
		t.Fatal(err)
	}

	registry := NewRegistryWithPaths([]string{dir})
	for _, builtin := range Builtins() {
		registry.Register(builtin)
	}

	if err := registry.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if _, ok := registry.Get("ontology-mapper"); !ok {
		t.Error("builtin ontology-mapper lost after Refresh")
	}
	if _, ok := registry.Get("disease-mapper"); !ok {
		t.Error("disk agent not loaded by Refresh")
	}

	names := registry.Names()
	if len(names) != 3 {
		t.Fatalf("Names() = %v, want 3 entries", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %v", names)
		}
	}
}

// scriptedProvider returns canned responses in order, recording the
// messages it was called with.
type scriptedProvider struct {
	responses []*llm.ToolCallResponse
	calls     [][]llm.Message
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := p.GenerateWithTools(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (p *scriptedProvider) GenerateWithTools(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.ToolCallResponse, error) {
	p.calls = append(p.calls, messages)
	if len(p.responses) == 0 {
		return nil, errors.New("scripted provider exhausted")
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func (p *scriptedProvider) ModelName() string { return "scripted" }

type fixedBackend struct {
	candidates []grounding.Candidate
}

func (b *fixedBackend) Find(ctx context.Context, vocabulary, query string) ([]grounding.Candidate, error) {
	return b.candidates, nil
}

func TestExecutorToolLoop(t *testing.T) {
	searchCall := llm.ToolCall{ID: "call_1", Type: "function"}
	searchCall.Function.Name = "search_ontology"
	searchCall.Function.Arguments = `{"vocabulary":"mondo","query":"Marfan syndrome"}`

	provider := &scriptedProvider{responses: []*llm.ToolCallResponse{
		{ToolCalls: []llm.ToolCall{searchCall}},
		{Content: "Marfan syndrome grounds to MONDO:0007947.", Done: true},
	}}

	searcher := grounding.NewSearcher(&fixedBackend{candidates: []grounding.Candidate{
		{ID: "MONDO:0007947", Label: "Marfan syndrome"},
	}})

	executor := NewExecutor(provider, searcher, map[string]string{"Disease": "mondo"}, "")
	def := &AgentDefinition{
		Name:         "mapper",
		SystemPrompt: "Map terms.",
		Tools:        []string{"search_ontology"},
	}

	result, err := executor.Execute(context.Background(), def, "ground Marfan syndrome")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Response != "Marfan syndrome grounds to MONDO:0007947." {
		t.Errorf("Response = %q", result.Response)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Name != "search_ontology" {
		t.Fatalf("ToolCalls = %+v", result.ToolCalls)
	}
	if !strings.Contains(result.ToolCalls[0].Result, "MONDO:0007947") {
		t.Errorf("tool result = %q", result.ToolCalls[0].Result)
	}

	// Second call must carry the assistant tool-call message and the
	// tool result back to the model.
	if len(provider.calls) != 2 {
		t.Fatalf("provider called %d times, want 2", len(provider.calls))
	}
	second := provider.calls[1]
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call_1" {
		t.Errorf("last message = %+v", last)
	}
}

func TestExecutorMaxIterations(t *testing.T) {
	searchCall := llm.ToolCall{ID: "call_loop", Type: "function"}
	searchCall.Function.Name = "search_ontology"
	searchCall.Function.Arguments = `{"vocabulary":"mondo","query":"x"}`

	provider := &scriptedProvider{responses: []*llm.ToolCallResponse{
		{ToolCalls: []llm.ToolCall{searchCall}},
		{ToolCalls: []llm.ToolCall{searchCall}},
	}}

	searcher := grounding.NewSearcher(&fixedBackend{})
	executor := NewExecutor(provider, searcher, nil, "")
	def := &AgentDefinition{Name: "looper", SystemPrompt: "Loop.", MaxIterations: 2}

	_, err := executor.Execute(context.Background(), def, "go")
	if err == nil || !strings.Contains(err.Error(), "max iterations") {
		t.Errorf("error = %v, want max iterations", err)
	}
}

func TestExecutorRestrictsTools(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ToolCallResponse{
		{Content: "done", Done: true},
	}}
	searcher := grounding.NewSearcher(&fixedBackend{})
	executor := NewExecutor(provider, searcher, nil, "")

	def := &AgentDefinition{
		Name:         "narrow",
		SystemPrompt: "Narrow.",
		Tools:        []string{"search_ontology"},
	}
	registry := executor.buildRegistry(def)
	if _, ok := registry.Get("search_ontology"); !ok {
		t.Error("allowed tool missing")
	}
	if _, ok := registry.Get("web_search"); ok {
		t.Error("web_search should not be registered")
	}

	open := &AgentDefinition{Name: "open", SystemPrompt: "Open."}
	if got := len(executor.buildRegistry(open).List()); got != 5 {
		t.Errorf("unrestricted registry has %d tools, want 5", got)
	}
}
