/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package importscan

import (
	"testing"

	"chainguard.dev/depreview/depscan/ecosystem"
)

func TestCountUsageFor(t *testing.T) {
	tests := []struct {
		name    string
		eco     ecosystem.Ecosystem
		pkg     string
		sources map[string]string
		want    int
	}{{
		name: "javascript delegates to the parser",
		eco:  ecosystem.JavaScript,
		pkg:  "lodash",
		sources: map[string]string{
			"a.js": `import _ from 'lodash';`,
			"b.js": `const fp = require('lodash/fp');`,
		},
		want: 2,
	}, {
		name: "go module path",
		eco:  ecosystem.Go,
		pkg:  "github.com/spf13/cobra",
		sources: map[string]string{
			"main.go": `import (
	"fmt"

	"github.com/spf13/cobra"
)`,
			"cmd.go": `import cobra "github.com/spf13/cobra"`,
		},
		want: 2,
	}, {
		name: "go major version suffix",
		eco:  ecosystem.Go,
		pkg:  "github.com/go-git/go-git/v5",
		sources: map[string]string{
			"a.go": `import "github.com/go-git/go-git/v5/plumbing"`,
		},
		want: 1,
	}, {
		name: "python dash to underscore",
		eco:  ecosystem.Python,
		pkg:  "typing-extensions",
		sources: map[string]string{
			"a.py": "from typing_extensions import Protocol\n",
			"b.py": "import typing_extensions\n",
			"c.py": "import typing\n",
		},
		want: 2,
	}, {
		name: "ruby require",
		eco:  ecosystem.Ruby,
		pkg:  "nokogiri",
		sources: map[string]string{
			"a.rb": "require 'nokogiri'\n",
			"b.rb": "require \"nokogiri/html\"\n",
		},
		want: 2,
	}, {
		name: "java group prefix",
		eco:  ecosystem.Java,
		pkg:  "com.fasterxml.jackson.core:jackson-databind",
		sources: map[string]string{
			"A.java": "import com.fasterxml.jackson.core.JsonParser;\n",
			"B.java": "import static com.fasterxml.jackson.core.JsonToken.VALUE_NULL;\n",
			"C.java": "import org.slf4j.Logger;\n",
		},
		want: 2,
	}, {
		name:    "no matches",
		eco:     ecosystem.Go,
		pkg:     "github.com/absent/module",
		sources: map[string]string{"a.go": `import "fmt"`},
		want:    0,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CountUsageFor(test.eco, test.pkg, test.sources); got != test.want {
				t.Errorf("CountUsageFor(%v, %q) = %d, wanted %d", test.eco, test.pkg, got, test.want)
			}
		})
	}
}
