package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slugRepoStub answers slug lookups from a fixed set and counts them.
type slugRepoStub struct {
	repository.CompanyRepository
	mu    sync.Mutex
	taken map[string]uint
	err   error
	calls []string
}

func (r *slugRepoStub) IsSlugAvailable(ctx context.Context, slug string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, slug)
	if r.err != nil {
		return false, r.err
	}
	owner, ok := r.taken[slug]
	return !ok || owner == excludeID, nil
}

func (r *slugRepoStub) lookups() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestSlugService_CheckAvailability(t *testing.T) {
	repo := &slugRepoStub{taken: map[string]uint{"clinica-vitro": 9}}
	svc := NewSlugService(repo)
	ctx := context.Background()

	tests := []struct {
		name      string
		candidate string
		opts      SlugCheckOptions
		status    SlugStatus
		reason    string
	}{
		{name: "Too short", candidate: "ab", status: SlugInvalid, reason: util.SlugTooShort},
		{name: "Bad chars", candidate: "Clinica", status: SlugInvalid, reason: util.SlugBadChars},
		{name: "Taken", candidate: "clinica-vitro", status: SlugTaken},
		{name: "Available", candidate: "clinica-sol", status: SlugAvailable},
		{name: "Own slug while editing", candidate: "clinica-vitro", opts: SlugCheckOptions{ExcludeID: 9, CurrentSlug: "clinica-vitro"}, status: SlugAvailable},
		{name: "Excluded id", candidate: "clinica-vitro", opts: SlugCheckOptions{ExcludeID: 9}, status: SlugAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.CheckAvailability(ctx, tt.candidate, tt.opts)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Equal(t, tt.candidate, result.Candidate)
		})
	}
}

func TestSlugService_NoLookupForLocalResults(t *testing.T) {
	repo := &slugRepoStub{err: errors.New("must not be called")}
	svc := NewSlugService(repo)
	ctx := context.Background()

	for _, candidate := range []string{"", "a", "ab"} {
		assert.Equal(t, SlugInvalid, svc.CheckAvailability(ctx, candidate, SlugCheckOptions{}).Status)
	}
	// own slug never collides, whatever the store says
	result := svc.CheckAvailability(ctx, "mi-empresa", SlugCheckOptions{ExcludeID: 3, CurrentSlug: "mi-empresa"})
	assert.Equal(t, SlugAvailable, result.Status)

	assert.Empty(t, repo.lookups())
}

func TestSlugService_TransportFailureIsUnknown(t *testing.T) {
	repo := &slugRepoStub{err: errors.New("connection refused")}
	svc := NewSlugService(repo)

	result := svc.CheckAvailability(context.Background(), "clinica-sol", SlugCheckOptions{})
	assert.Equal(t, SlugUnknown, result.Status)

	repo.err = nil
	result = svc.CheckAvailability(context.Background(), "clinica-sol", SlugCheckOptions{})
	assert.Equal(t, SlugAvailable, result.Status, "an unknown result can be retried")
}

type resultSink struct {
	mu      sync.Mutex
	results []SlugResult
	ch      chan SlugResult
}

func newResultSink() *resultSink {
	return &resultSink{ch: make(chan SlugResult, 16)}
}

func (s *resultSink) add(r SlugResult) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
	s.ch <- r
}

func (s *resultSink) wait(t *testing.T) SlugResult {
	select {
	case r := <-s.ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no slug result delivered")
		return SlugResult{}
	}
}

func TestSlugWatcher_DebouncesToLastCandidate(t *testing.T) {
	repo := &slugRepoStub{taken: map[string]uint{}}
	sink := newResultSink()
	w := NewSlugWatcher(context.Background(), NewSlugService(repo), 50*time.Millisecond, SlugCheckOptions{}, sink.add)
	defer w.Close()

	w.SetCandidate("abc")
	w.SetCandidate("abcd")
	w.SetCandidate("abcde")
	w.SetCandidate("abcd")

	result := sink.wait(t)
	assert.Equal(t, "abcd", result.Candidate)
	assert.Equal(t, SlugAvailable, result.Status)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []string{"abcd"}, repo.lookups())
}

func TestSlugWatcher_KeystrokesFromName(t *testing.T) {
	repo := &slugRepoStub{taken: map[string]uint{"abcd": 1}}
	sink := newResultSink()
	w := NewSlugWatcher(context.Background(), NewSlugService(repo), 50*time.Millisecond, SlugCheckOptions{}, sink.add)
	defer w.Close()

	assert.Equal(t, "ab", w.Input("Ab"))
	first := sink.wait(t)
	assert.Equal(t, SlugInvalid, first.Status, "short candidates resolve without waiting")

	w.Input("Abc")
	w.Input("Abcd")

	result := sink.wait(t)
	assert.Equal(t, "abcd", result.Candidate)
	assert.Equal(t, SlugTaken, result.Status)
	assert.Equal(t, []string{"abcd"}, repo.lookups())
}

func TestSlugWatcher_LocalResultCancelsPendingLookup(t *testing.T) {
	repo := &slugRepoStub{taken: map[string]uint{}}
	sink := newResultSink()
	w := NewSlugWatcher(context.Background(), NewSlugService(repo), 30*time.Millisecond,
		SlugCheckOptions{ExcludeID: 4, CurrentSlug: "mi-clinica"}, sink.add)
	defer w.Close()

	w.SetCandidate("mi-clinic")
	w.SetCandidate("mi-clinica")

	result := sink.wait(t)
	assert.Equal(t, SlugAvailable, result.Status)

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, repo.lookups())
}

// blockingChecker holds a lookup open until released.
type blockingChecker struct {
	started chan string
	release chan struct{}
}

func (c *blockingChecker) CheckAvailability(ctx context.Context, candidate string, opts SlugCheckOptions) SlugResult {
	c.started <- candidate
	<-c.release
	return SlugResult{Candidate: candidate, Status: SlugTaken}
}

func TestSlugWatcher_DropsStaleResponse(t *testing.T) {
	checker := &blockingChecker{started: make(chan string, 1), release: make(chan struct{})}
	sink := newResultSink()
	w := NewSlugWatcher(context.Background(), checker, 10*time.Millisecond, SlugCheckOptions{}, sink.add)
	defer w.Close()

	w.SetCandidate("abc")
	require.Equal(t, "abc", <-checker.started)

	// the user keeps typing while "abc" is in flight
	w.SetCandidate("a")
	invalid := sink.wait(t)
	assert.Equal(t, "a", invalid.Candidate)

	close(checker.release)
	time.Sleep(50 * time.Millisecond)

	candidate, latest := w.Latest()
	assert.Equal(t, "a", candidate)
	require.NotNil(t, latest)
	assert.Equal(t, SlugInvalid, latest.Status)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, r := range sink.results {
		assert.False(t, strings.EqualFold(r.Candidate, "abc"), "stale result for abc was applied")
	}
}
