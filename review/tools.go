/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"

	"chainguard.dev/depreview/agents/toolcall"
	"chainguard.dev/depreview/agents/toolcall/params"
	"chainguard.dev/depreview/depscan/changelog"
	"chainguard.dev/depreview/depscan/ecosystem"
	"chainguard.dev/depreview/depscan/importscan"
	"chainguard.dev/depreview/tools/clonemanager"
	"chainguard.dev/depreview/tools/gitcli"
	"chainguard.dev/depreview/tools/registry"
)

// lookupPackageTool lets an agent query the package registry.
func lookupPackageTool(reg *registry.Client) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        "lookup_package",
			Description: "Look a package up in its registry, returning its description, latest version, and source repository.",
			Parameters: []toolcall.Parameter{{
				Name:        "package",
				Type:        "string",
				Description: "The package name, e.g. lodash or @scope/pkg.",
				Required:    true,
			}},
		},
		Handler: func(ctx context.Context, call toolcall.Call) map[string]any {
			pkg, errMap := toolcall.Param[string](call, "package")
			if errMap != nil {
				return errMap
			}
			meta, err := reg.Lookup(ctx, pkg)
			if err != nil {
				return params.Error("looking up %s: %v", pkg, err)
			}
			out := map[string]any{
				"name":        meta.Name,
				"description": meta.Description,
				"latest":      meta.Latest,
				"repository":  meta.Repository,
			}
			if meta.Deprecated != "" {
				out["deprecated"] = meta.Deprecated
			}
			return out
		},
	}
}

// fetchChangelogTool lets an agent pull the upstream changelog slice for a
// version range.
func fetchChangelogTool(fetcher *changelog.Fetcher) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        "fetch_changelog",
			Description: "Fetch the upstream changelog entries between two versions of a GitHub-hosted package.",
			Parameters: []toolcall.Parameter{{
				Name:        "owner",
				Type:        "string",
				Description: "The GitHub owner of the upstream repository.",
				Required:    true,
			}, {
				Name:        "repo",
				Type:        "string",
				Description: "The GitHub repository name.",
				Required:    true,
			}, {
				Name:        "from_version",
				Type:        "string",
				Description: "The version before the upgrade. Optional.",
			}, {
				Name:        "to_version",
				Type:        "string",
				Description: "The version after the upgrade.",
				Required:    true,
			}},
		},
		Handler: func(ctx context.Context, call toolcall.Call) map[string]any {
			owner, errMap := toolcall.Param[string](call, "owner")
			if errMap != nil {
				return errMap
			}
			repo, errMap := toolcall.Param[string](call, "repo")
			if errMap != nil {
				return errMap
			}
			to, errMap := toolcall.Param[string](call, "to_version")
			if errMap != nil {
				return errMap
			}
			from, errMap := toolcall.OptionalParam(call, "from_version", "")
			if errMap != nil {
				return errMap
			}
			slice, err := fetcher.FetchSlice(ctx, owner, repo, from, to)
			if err != nil {
				return params.Error("fetching changelog for %s/%s: %v", owner, repo, err)
			}
			if slice == "" {
				return map[string]any{"changelog": "", "note": "no changelog found upstream"}
			}
			return map[string]any{"changelog": slice}
		},
	}
}

// readSourceFileTool lets an agent read files from the consuming
// repository's checkout, scoped to the lease's working tree.
func readSourceFileTool(lease *clonemanager.Lease) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        "read_source_file",
			Description: "Read a file from the repository under review, by repository-relative path.",
			Parameters: []toolcall.Parameter{{
				Name:        "path",
				Type:        "string",
				Description: "The repository-relative file path.",
				Required:    true,
			}},
		},
		Handler: func(_ context.Context, call toolcall.Call) map[string]any {
			path, errMap := toolcall.Param[string](call, "path")
			if errMap != nil {
				return errMap
			}
			content, err := lease.ReadFile(path)
			if err != nil {
				return params.Error("reading %s: %v", path, err)
			}
			return map[string]any{"path": path, "content": content}
		},
	}
}

// countUsageTool lets an agent count import-level usage of any package in
// the consuming repository's checkout.
func countUsageTool(lease *clonemanager.Lease, eco ecosystem.Ecosystem) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        "count_usage",
			Description: "Count how many source files in the repository under review import the given package.",
			Parameters: []toolcall.Parameter{{
				Name:        "package",
				Type:        "string",
				Description: "The package name as it appears in import statements.",
				Required:    true,
			}},
		},
		Handler: func(ctx context.Context, call toolcall.Call) map[string]any {
			pkg, errMap := toolcall.Param[string](call, "package")
			if errMap != nil {
				return errMap
			}
			sources, err := lease.Sources(eco)
			if err != nil {
				return params.Error("scanning sources: %v", err)
			}
			return map[string]any{
				"package":    pkg,
				"usageCount": importscan.CountUsageFor(eco, pkg, sources),
			}
		},
	}
}

// fileHistoryTool lets an agent inspect recent commit history for a file
// in the consuming repository's checkout.
func fileHistoryTool(git *gitcli.Client) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        "file_history",
			Description: "List recent commit subjects that touched a file in the repository under review, newest first.",
			Parameters: []toolcall.Parameter{{
				Name:        "path",
				Type:        "string",
				Description: "The repository-relative file path.",
				Required:    true,
			}},
		},
		Handler: func(ctx context.Context, call toolcall.Call) map[string]any {
			path, errMap := toolcall.Param[string](call, "path")
			if errMap != nil {
				return errMap
			}
			subjects, err := git.FileHistory(ctx, path, 20)
			if err != nil {
				return params.Error("listing history for %s: %v", path, err)
			}
			return map[string]any{"path": path, "commits": subjects}
		},
	}
}
