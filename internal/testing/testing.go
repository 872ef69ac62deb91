// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/desertthunder/cocktailparty/internal/repositories"
)

// ErrInjected is returned by doubles told to fail.
var ErrInjected = errors.New("injected failure")

// MockCocktailService is a test double for [services.CocktailService] serving canned data.
type MockCocktailService struct {
	Ingredients []models.Ingredient
	// Drinks maps an ingredient to its filter results.
	Drinks map[string][]models.Cocktail
	// Recipes maps a drink id to its full recipe.
	Recipes map[string]models.Cocktail
	Err     error

	mu    sync.Mutex
	Calls []string
}

func (m *MockCocktailService) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockCocktailService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	m.record("ListIngredients")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Ingredients, nil
}

func (m *MockCocktailService) FilterByIngredient(ctx context.Context, ingredient string) ([]models.Cocktail, error) {
	m.record("FilterByIngredient:" + ingredient)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Drinks[ingredient], nil
}

func (m *MockCocktailService) LookupCocktail(ctx context.Context, id string) (*models.Cocktail, error) {
	m.record("LookupCocktail:" + id)
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrCocktailNotFound, id)
	}
	return &c, nil
}

func (m *MockCocktailService) RecipeURL(id string) string {
	return "https://www.thecocktaildb.com/drink/" + id
}

func (m *MockCocktailService) Name() string { return "mock" }

// FlakyKV wraps a [repositories.MemoryStore] and fails the operations whose flag is set.
type FlakyKV struct {
	*repositories.MemoryStore

	mu         sync.Mutex
	FailGet    bool
	FailSet    bool
	FailDelete bool
	// FailKeyPrefix limits injected failures to keys with this prefix when not empty.
	FailKeyPrefix string
	Sets          int
}

func NewFlakyKV() *FlakyKV {
	return &FlakyKV{MemoryStore: repositories.NewMemoryStore()}
}

// Fail sets the failure flags atomically.
func (f *FlakyKV) Fail(get, set, del bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailGet, f.FailSet, f.FailDelete = get, set, del
}

func (f *FlakyKV) matches(key string) bool {
	return f.FailKeyPrefix == "" || strings.HasPrefix(key, f.FailKeyPrefix)
}

func (f *FlakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.FailGet && f.matches(key)
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *FlakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.FailSet && f.matches(key)
	if !fail {
		f.Sets++
	}
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *FlakyKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.FailDelete && f.matches(key)
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.MemoryStore.Delete(ctx, key)
}

// SetCount returns the number of successful writes.
func (f *FlakyKV) SetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Sets
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MustChdir changes into dir and restores the previous working directory when the test ends.
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
