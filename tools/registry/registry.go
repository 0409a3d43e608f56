/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package registry queries package registries for dependency metadata, most
// importantly the upstream source repository where changelogs live.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

const defaultNPMRegistry = "https://registry.npmjs.org"

// Metadata is the registry view of a package.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Latest is the version tagged latest.
	Latest string `json:"latest"`

	// Repository is the raw repository URL from the registry, when set.
	Repository string `json:"repository,omitempty"`

	// Deprecated carries the registry's deprecation message for the latest
	// version, when the package is deprecated.
	Deprecated string `json:"deprecated,omitempty"`
}

// Client queries the npm registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the registry endpoint, for tests and mirrors.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a registry client for the public npm registry unless
// overridden.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultNPMRegistry,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// npmPackage mirrors the slice of the npm registry document we read.
type npmPackage struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DistTags    struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Repository json.RawMessage `json:"repository"`
	Versions   map[string]struct {
		Deprecated string `json:"deprecated"`
	} `json:"versions"`
}

// Lookup fetches package metadata from the registry.
func (c *Client) Lookup(ctx context.Context, pkg string) (*Metadata, error) {
	// Scoped package names keep their slash URL-encoded.
	escaped := strings.ReplaceAll(pkg, "/", "%2F")
	url := fmt.Sprintf("%s/%s", c.baseURL, escaped)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	clog.FromContext(ctx).Debugf("Looking up %s in registry", pkg)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying registry for %s: %w", pkg, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("package %s not found in registry", pkg)
	default:
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, pkg)
	}

	var doc npmPackage
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding registry response for %s: %w", pkg, err)
	}

	return &Metadata{
		Name:        doc.Name,
		Description: doc.Description,
		Latest:      doc.DistTags.Latest,
		Repository:  repositoryURL(doc.Repository),
		Deprecated:  doc.Versions[doc.DistTags.Latest].Deprecated,
	}, nil
}

// repositoryURL handles the two shapes npm allows: a bare string or an
// object with a url field.
func repositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	return ""
}

var githubRepoRE = regexp.MustCompile(`github\.com[:/]([\w.-]+)/([\w.-]+?)(?:\.git)?(?:[/#?].*)?$`)

// GitHubRepo parses an owner/repo pair out of a repository URL in any of the
// forms registries use: git+https, git://, ssh, or a plain web URL.
func GitHubRepo(repoURL string) (owner, repo string, err error) {
	m := githubRepoRE.FindStringSubmatch(repoURL)
	if m == nil {
		return "", "", fmt.Errorf("repository URL %q is not a GitHub repository", repoURL)
	}
	return m[1], m[2], nil
}

// ResolveUpstream looks the package up and resolves its GitHub repository.
func (c *Client) ResolveUpstream(ctx context.Context, pkg string) (owner, repo string, err error) {
	meta, err := c.Lookup(ctx, pkg)
	if err != nil {
		return "", "", err
	}
	if meta.Repository == "" {
		return "", "", fmt.Errorf("package %s has no repository URL in the registry", pkg)
	}
	return GitHubRepo(meta.Repository)
}
