/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the dependency-review service, which analyzes
// dependency-update pull requests with LLM agents. With -pr it analyzes a
// single pull request and prints a markdown report; otherwise it serves the
// analysis API over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/depreview/review"
	"chainguard.dev/depreview/review/report"
	"chainguard.dev/depreview/server"
	"chainguard.dev/depreview/tools/clonemanager"
	"chainguard.dev/depreview/tools/ghcli"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/oauth2"
	"google.golang.org/genai"
)

type config struct {
	Port  int    `env:"PORT,default=8080"`
	Model string `env:"MODEL,default=claude-sonnet-4-5"`

	// Token auth; preferred when set.
	GitHubToken string `env:"GITHUB_TOKEN"`

	// GitHub App auth, used when no token is configured.
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	GitHubPrivateKey     string `env:"GITHUB_PRIVATE_KEY_PATH"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
}

func main() {
	prURL := flag.String("pr", "", "pull request URL to analyze once, printing a markdown report")
	useGHCLI := flag.Bool("use-gh-cli", false, "fetch pull request material through the gh CLI instead of the REST API")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	gh, tokenSource, err := githubClient(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "configuring GitHub client: %v", err)
	}

	clients, err := modelClients(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "configuring model clients: %v", err)
	}

	opts := []review.AnalyzerOption{
		review.WithModel(cfg.Model),
		review.WithCloneManager(clonemanager.New(tokenSource)),
	}
	if *useGHCLI {
		cli, err := ghcli.New()
		if err != nil {
			clog.FatalContextf(ctx, "configuring gh CLI: %v", err)
		}
		opts = append(opts, review.WithSource(review.NewCLISource(cli)))
	}
	analyzer := review.NewAnalyzer(gh, clients, opts...)

	if *prURL != "" {
		analyzeOnce(ctx, analyzer, *prURL)
		return
	}

	clog.InfoContextf(ctx, "Starting analysis server on port %d with model %s", cfg.Port, cfg.Model)
	srv := server.New(cfg.Port, server.NewHandler(analyzer))
	if err := srv.Run(ctx); err != nil {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}

func analyzeOnce(ctx context.Context, analyzer *review.Analyzer, prURL string) {
	res, err := review.ParseURL(prURL)
	if err != nil {
		clog.FatalContextf(ctx, "parsing PR URL: %v", err)
	}

	analysis, err := analyzer.Analyze(ctx, res)
	if err != nil {
		clog.FatalContextf(ctx, "analyzing %s: %v", res, err)
	}

	fmt.Println(report.Markdown(analysis))
}

// githubClient builds the GitHub REST client and a token source for git
// operations, from either a static token or GitHub App credentials.
func githubClient(ctx context.Context, cfg config) (*github.Client, oauth2.TokenSource, error) {
	if cfg.GitHubToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken})
		return github.NewClient(oauth2.NewClient(ctx, ts)), ts, nil
	}

	if cfg.GitHubAppID != 0 {
		itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("loading GitHub App key: %w", err)
		}
		ts := &installationTokenSource{ctx: ctx, itr: itr}
		return github.NewClient(&http.Client{Transport: itr}), ts, nil
	}

	clog.WarnContext(ctx, "No GitHub credentials configured; API rate limits will be strict")
	return github.NewClient(nil), nil, nil
}

// installationTokenSource adapts a GitHub App installation transport to the
// oauth2.TokenSource the clone manager expects.
type installationTokenSource struct {
	ctx context.Context
	itr *ghinstallation.Transport
}

func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.itr.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token}, nil
}

// modelClients constructs an SDK client for each provider with credentials
// configured.
func modelClients(ctx context.Context, cfg config) (review.Clients, error) {
	var clients review.Clients

	if cfg.AnthropicAPIKey != "" {
		c := anthropic.NewClient(anthropicoption.WithAPIKey(cfg.AnthropicAPIKey))
		clients.Anthropic = &c
	}
	if cfg.OpenAIAPIKey != "" {
		c := openai.NewClient(openaioption.WithAPIKey(cfg.OpenAIAPIKey))
		clients.OpenAI = &c
	}
	if cfg.GeminiAPIKey != "" {
		c, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return clients, fmt.Errorf("creating Gemini client: %w", err)
		}
		clients.Google = c
	}

	return clients, nil
}
