/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package importscan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Import
	}{{
		name:   "default import",
		source: `import React from 'react';`,
		want: []Import{{
			Kind:     Static,
			Bindings: []string{"React"},
			Source:   "react",
			Line:     1,
		}},
	}, {
		name:   "named imports",
		source: `import { useState, useEffect } from 'react';`,
		want: []Import{{
			Kind:     Static,
			Bindings: []string{"useState", "useEffect"},
			Source:   "react",
			Line:     1,
		}},
	}, {
		name:   "default plus named with alias",
		source: `import React, { useState as state } from "react";`,
		want: []Import{{
			Kind:     Static,
			Bindings: []string{"React", "state"},
			Source:   "react",
			Line:     1,
		}},
	}, {
		name:   "namespace import",
		source: `import * as path from 'node:path';`,
		want: []Import{{
			Kind:     Static,
			Bindings: []string{"path"},
			Source:   "node:path",
			Line:     1,
		}},
	}, {
		name:   "side effect import",
		source: `import './styles.css';`,
		want: []Import{{
			Kind:   Static,
			Source: "./styles.css",
			Line:   1,
		}},
	}, {
		name:   "dynamic import",
		source: `const mod = await import('lodash-es');`,
		want: []Import{{
			Kind:   Dynamic,
			Source: "lodash-es",
			Line:   1,
		}},
	}, {
		name:   "require with binding",
		source: `const _ = require('lodash');`,
		want: []Import{{
			Kind:     Require,
			Bindings: []string{"_"},
			Source:   "lodash",
			Line:     1,
		}},
	}, {
		name:   "require with destructuring",
		source: `const { merge, cloneDeep } = require('lodash');`,
		want: []Import{{
			Kind:     Require,
			Bindings: []string{"merge", "cloneDeep"},
			Source:   "lodash",
			Line:     1,
		}},
	}, {
		name:   "bare require",
		source: `require('dotenv/config');`,
		want: []Import{{
			Kind:   Require,
			Source: "dotenv/config",
			Line:   1,
		}},
	}, {
		name:   "export from",
		source: `export { default as Button } from './Button';`,
		want: []Import{{
			Kind:     ExportFrom,
			Bindings: []string{"Button"},
			Source:   "./Button",
			Line:     1,
		}},
	}, {
		name: "multiple lines with comments",
		source: `// import fake from 'fake';
import a from 'a';

import b from 'b';`,
		want: []Import{{
			Kind:     Static,
			Bindings: []string{"a"},
			Source:   "a",
			Line:     2,
		}, {
			Kind:     Static,
			Bindings: []string{"b"},
			Source:   "b",
			Line:     4,
		}},
	}, {
		name:   "no imports",
		source: `const x = 1 + 2;`,
		want:   nil,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Scan(test.source)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCountUsage(t *testing.T) {
	sources := map[string]string{
		"src/a.js": `import _ from 'lodash';
import fp from 'lodash/fp';`,
		"src/b.ts": `const merge = require('lodash');`,
		"src/c.js": `import React from 'react';`,
	}
	if got := CountUsage("lodash", sources); got != 3 {
		t.Errorf("CountUsage(lodash) = %d, wanted 3", got)
	}
	if got := CountUsage("react", sources); got != 1 {
		t.Errorf("CountUsage(react) = %d, wanted 1", got)
	}
	if got := CountUsage("express", sources); got != 0 {
		t.Errorf("CountUsage(express) = %d, wanted 0", got)
	}
}

func TestCountUsageScopedPackage(t *testing.T) {
	sources := map[string]string{
		"a.ts": `import { trace } from '@opentelemetry/api';
import exporter from '@opentelemetry/api/experimental';`,
	}
	if got := CountUsage("@opentelemetry/api", sources); got != 2 {
		t.Errorf("CountUsage(@opentelemetry/api) = %d, wanted 2", got)
	}
}
