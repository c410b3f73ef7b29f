package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webhook-reporter/webhook-reporter/internal/config"
	"github.com/webhook-reporter/webhook-reporter/pkg/api"
)

var dataFS = os.DirFS(filepath.Join("..", "..", "data"))

func newCase(t *testing.T, name string, status api.TestStatus, seconds, message string) api.TestCase {
	t.Helper()
	tc, err := api.NewTestCase(name, status, seconds, message, "")
	require.NoError(t, err)
	return tc
}

func sampleReports(t *testing.T) (*api.CoverageReport, *api.TestReport) {
	coverage := api.NewCoverageReport(0.75, 0.5, []api.FileCoverage{
		api.NewFileCoverage("app.py", 0.75, 0.5, 3),
	}, "1727548394513")

	cases := []api.TestCase{
		newCase(t, "test_ok", api.TestStatusPassed, "0.5", ""),
		newCase(t, "test_slow", api.TestStatusPassed, "90", ""),
		newCase(t, "test_skip", api.TestStatusSkipped, "0", "not on linux"),
	}
	for i := 0; i < 6; i++ {
		cases = append(cases, newCase(t, "test_fail_"+string(rune('a'+i)), api.TestStatusFailed, "1", "    assert 1 == 2\n    where 1 = f()"))
	}
	tests := api.NewTestReport([]api.TestSuite{api.NewTestSuite("pytest", cases, 97.5)})
	return coverage, tests
}

func TestNewMessage(t *testing.T) {
	coverage, tests := sampleReports(t)
	msg := NewMessage(coverage, tests, 80, config.ActionInfo{})

	assert.Equal(t, api.CoverageStatusNeedsImprovement, msg.CoverageStatus)
	require.Len(t, msg.Sections, 2)

	failed := msg.Sections[0]
	assert.Equal(t, "Failed tests", failed.Title)
	assert.Len(t, failed.Entries, maxSectionEntries)
	assert.Equal(t, 2, failed.More)
	assert.Equal(t, "assert 1 == 2 where 1 = f()", failed.Entries[0].Message)

	assert.Equal(t, "Skipped tests", msg.Sections[1].Title)
	assert.Zero(t, msg.Sections[1].More)

	empty := NewMessage(nil, nil, 65, config.ActionInfo{})
	assert.Empty(t, empty.Sections)
	assert.Empty(t, empty.CoverageStatus)
}

func TestCutMessage(t *testing.T) {
	assert.Equal(t, "line one\nline two", dedent("  line one\n  line two"))
	assert.Equal(t, "a\n  b", dedent("  a\n    b"))
	assert.Len(t, []rune(cutMessage(strings.Repeat("é", 300))), maxEntryMessage)
	assert.Equal(t, "", cutMessage(""))
}

func TestRender(t *testing.T) {
	coverage, tests := sampleReports(t)
	action := config.ActionInfo{
		Repository: "acme/app",
		SHA:        "0123456789abcdef",
		Ref:        "refs/heads/main",
		RunID:      "42",
		Actor:      "octo",
	}

	text, err := Render(dataFS, NewMessage(coverage, tests, 80, action))
	require.NoError(t, err)

	for _, want := range []string{
		"## Test and Coverage Report",
		"**Coverage:** 75% lines, 50% branches 🟡 needs_improvement (threshold 80%)",
		"**Tests:** 9 total, 2 passed, 6 failed, 0 errors, 1 skipped",
		"**Success rate:** 22.22% | **Duration:** 1m 38s",
		"### Failed tests",
		"- `test_fail_a`: assert 1 == 2 where 1 = f()",
		"- ... and 2 more",
		"- `test_skip`: not on linux",
		"### Slowest tests\n- `test_slow` 1m 30s",
		"[0123456](https://github.com/acme/app/commit/0123456789abcdef)",
		"[heads/main](https://github.com/acme/app/heads/main) by octo",
	} {
		assert.Contains(t, text, want)
	}
}

func TestRenderCoverageOnly(t *testing.T) {
	coverage, _ := sampleReports(t)
	text, err := Render(dataFS, NewMessage(coverage, nil, 65, config.ActionInfo{}))
	require.NoError(t, err)
	assert.Contains(t, text, "🟢 good")
	assert.NotContains(t, text, "**Tests:**")
	assert.NotContains(t, text, "github.com")

	_, err = Render(nil, NewMessage(coverage, nil, 65, config.ActionInfo{}))
	assert.Error(t, err)
}

func TestPayload(t *testing.T) {
	tests := []struct {
		provider config.Provider
		want     map[string]string
	}{
		{config.ProviderDiscord, map[string]string{"content": "hello", "username": botUsername}},
		{config.ProviderSlack, map[string]string{"text": "hello"}},
		{config.ProviderTeams, map[string]string{"text": "hello"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.provider), func(t *testing.T) {
			raw, err := Payload(tc.provider, "hello")
			require.NoError(t, err)
			got := map[string]string{}
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tc.want, got)
		})
	}

	raw, err := Payload(config.ProviderDiscord, strings.Repeat("x", 3000))
	require.NoError(t, err)
	got := map[string]string{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got["content"], discordContentLimit)

	_, err = Payload("irc", "hello")
	var invalid *config.InvalidProviderError
	assert.ErrorAs(t, err, &invalid)
}

func TestSend(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClient(config.ProviderSlack, srv.URL).Send(context.Background(), "report")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"report"}`, string(body))
}

func TestSendErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/bad" {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(config.ProviderTeams, srv.URL+"/bad").Send(context.Background(), "report")
	assert.ErrorContains(t, err, "returned status 400: invalid payload")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "client errors are not retried")

	atomic.StoreInt32(&calls, 0)
	client := NewClient(config.ProviderTeams, srv.URL+"/down", WithRetry(1, time.Millisecond, time.Millisecond))
	err = client.Send(context.Background(), "report")
	assert.ErrorContains(t, err, "returned status 500")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestPreview(t *testing.T) {
	out, err := Preview("## Test and Coverage Report\n\n**Coverage:** 75% lines")
	require.NoError(t, err)
	assert.Contains(t, ansi.Strip(out), "Test and Coverage Report")
}
