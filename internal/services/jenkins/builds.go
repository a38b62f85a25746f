// Package jenkins collects the identifiers of builds currently running
// on Jenkins instances. Cluster cleanup treats these as "in use"
// markers.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/domain"
)

// The tree query keeps the payload down to the executable URLs.
const computerQuery = "tree=computer[executors[currentExecutable[url]],oneOffExecutors[currentExecutable[url]]]"

// BuildSource fetches active builds from Jenkins endpoints.
type BuildSource struct {
	http   *adapterhttp.Adapter
	logger *slog.Logger
	out    io.Writer
}

// NewBuildSource creates a Jenkins build source.
func NewBuildSource(adapter *adapterhttp.Adapter, logger *slog.Logger, out io.Writer) *BuildSource {
	return &BuildSource{http: adapter, logger: logger, out: out}
}

type computerResponse struct {
	Computer []struct {
		Executors       []executorData `json:"executors"`
		OneOffExecutors []executorData `json:"oneOffExecutors"`
	} `json:"computer"`
}

type executorData struct {
	CurrentExecutable struct {
		URL string `json:"url"`
	} `json:"currentExecutable"`
}

// ActiveBuilds queries every endpoint and returns the accumulated
// <silo>-<job>-<buildnum> tokens. Endpoint failures are reported and
// skipped rather than failing the run; a partially populated set is
// still safer than none, and the caller aborts on an empty endpoint
// list separately.
func (s *BuildSource) ActiveBuilds(ctx context.Context, endpoints []string) domain.ActiveBuildSet {
	var builds domain.ActiveBuildSet

	for _, endpoint := range endpoints {
		endpoint = strings.TrimRight(endpoint, "/")
		url := fmt.Sprintf("%s/computer/api/json?%s", endpoint, computerQuery)

		resp, err := s.http.Get(ctx, url, map[string]string{"Content-Type": "application/json"})
		if err != nil {
			fmt.Fprintf(s.out, "ERROR: Failed to fetch data from %s: %v\n", url, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			fmt.Fprintf(s.out, "ERROR: Failed to read data from %s: %v\n", url, err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(s.out, "ERROR: Failed to fetch data from %s with status code %d\n", url, resp.StatusCode)
			continue
		}

		var data computerResponse
		if err := json.Unmarshal(body, &data); err != nil {
			fmt.Fprintf(s.out, "ERROR: Failed to parse JSON from %s: %v\n", url, err)
			continue
		}

		silo := siloName(endpoint)
		for _, computer := range data.Computer {
			executors := append(computer.Executors, computer.OneOffExecutors...)
			for _, executor := range executors {
				if token, ok := buildToken(silo, executor.CurrentExecutable.URL); ok {
					builds = append(builds, token)
				}
			}
		}
	}

	s.logger.InfoContext(ctx, "collected active builds", "count", len(builds))
	return builds
}

// siloName derives the silo label from the endpoint: production Jenkins
// instances live under a jenkins.<umbrella>.org/.io hostname, sandboxes
// are addressed by their last path segment.
func siloName(endpoint string) string {
	if strings.Contains(endpoint, "jenkins.") &&
		(strings.Contains(endpoint, ".org") || strings.Contains(endpoint, ".io")) {
		return "production"
	}
	parts := strings.Split(endpoint, "/")
	return parts[len(parts)-1]
}

// buildToken turns an executable URL like .../job/<name>/<number>/ into
// <silo>-<name>-<number>.
func buildToken(silo, execURL string) (string, bool) {
	if execURL == "" || execURL == "null" {
		return "", false
	}
	parts := strings.Split(strings.TrimRight(execURL, "/"), "/")
	if len(parts) < 2 {
		return "", false
	}
	job := parts[len(parts)-2]
	number := parts[len(parts)-1]
	return fmt.Sprintf("%s-%s-%s", silo, job, number), true
}
