/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resource identifies the pull request under review.
type Resource struct {
	// Owner is the GitHub organization or user.
	Owner string `json:"owner"`

	// Repo is the repository name.
	Repo string `json:"repo"`

	// Number is the pull request number.
	Number int `json:"number"`

	// URL is the canonical pull request URL.
	URL string `json:"url"`
}

// ParseURL parses a GitHub pull request URL of the form
// https://github.com/{owner}/{repo}/pull/{number}.
func ParseURL(prURL string) (*Resource, error) {
	u, err := url.Parse(prURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL %q: %w", prURL, err)
	}
	if u.Host != "github.com" {
		return nil, fmt.Errorf("unsupported host %q in %q", u.Host, prURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "pull" {
		return nil, fmt.Errorf("URL %q is not a pull request URL", prURL)
	}

	number, err := strconv.Atoi(parts[3])
	if err != nil || number <= 0 {
		return nil, fmt.Errorf("invalid pull request number in %q", prURL)
	}

	return &Resource{
		Owner:  parts[0],
		Repo:   parts[1],
		Number: number,
		URL:    fmt.Sprintf("https://github.com/%s/%s/pull/%d", parts[0], parts[1], number),
	}, nil
}

func (r *Resource) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}
