package jenkins

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/testutil"
)

func TestSiloName(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		expected string
	}{
		{
			name:     "production org instance",
			endpoint: "https://jenkins.opendaylight.org/releng",
			expected: "production",
		},
		{
			name:     "production io instance",
			endpoint: "https://jenkins.onap.io/ci",
			expected: "production",
		},
		{
			name:     "sandbox addressed by path",
			endpoint: "https://build.example.com/sandbox",
			expected: "sandbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, siloName(tt.endpoint))
		})
	}
}

func TestBuildToken(t *testing.T) {
	tests := []struct {
		name     string
		execURL  string
		expected string
		ok       bool
	}{
		{
			name:     "job url",
			execURL:  "https://jenkins.example.org/job/my-job/42/",
			expected: "production-my-job-42",
			ok:       true,
		},
		{
			name:    "empty url",
			execURL: "",
			ok:      false,
		},
		{
			name:    "literal null",
			execURL: "null",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := buildToken("production", tt.execURL)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, token)
			}
		})
	}
}

func newSource(out *bytes.Buffer) *BuildSource {
	return NewBuildSource(adapterhttp.NewAdapter(5*time.Second, false, testutil.Logger()), testutil.Logger(), out)
}

func TestActiveBuilds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sandbox/computer/api/json", r.URL.Path)
		fmt.Fprint(w, `{
			"computer": [
				{
					"executors": [
						{"currentExecutable": {"url": "https://host/job/job-a/1/"}},
						{"currentExecutable": {"url": ""}}
					],
					"oneOffExecutors": [
						{"currentExecutable": {"url": "https://host/job/job-b/7/"}}
					]
				},
				{"executors": [], "oneOffExecutors": []}
			]
		}`)
	}))
	defer server.Close()

	var out bytes.Buffer
	builds := newSource(&out).ActiveBuilds(context.Background(), []string{server.URL + "/sandbox/"})

	assert.ElementsMatch(t, []string{"sandbox-job-a-1", "sandbox-job-b-7"}, []string(builds))
}

// One dead endpoint must not poison the others.
func TestActiveBuildsToleratesEndpointFailure(t *testing.T) {
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"computer": [{"executors": [{"currentExecutable": {"url": "https://host/job/job-a/1/"}}]}]}`)
	}))
	defer working.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()

	var out bytes.Buffer
	builds := newSource(&out).ActiveBuilds(context.Background(),
		[]string{broken.URL + "/dead", working.URL + "/alive"})

	assert.Len(t, builds, 1)
	assert.Contains(t, out.String(), "ERROR: Failed to fetch data from")
}

func TestActiveBuildsNoEndpoints(t *testing.T) {
	var out bytes.Buffer
	builds := newSource(&out).ActiveBuilds(context.Background(), nil)
	assert.Empty(t, builds)
}
