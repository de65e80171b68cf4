// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

// Domain packages stay below the command layer.
var commandLayer = []string{
	"scaffold/internal/appcore", "scaffold/internal/app", "scaffold/internal/appshell",
	"scaffold/internal/cli", "scaffold/internal/cmdutil", "scaffold/cmd/",
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "scaffold/...")
	var out bytes.Buffer
	cmd.Stdout = &out
	require.NoError(t, cmd.Run(), "go list")
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		"scaffold/internal/contig": append([]string{
			"scaffold/internal/alignment", "scaffold/internal/linkage",
			"scaffold/internal/report", "scaffold/internal/pipeline", "scaffold/internal/config",
		}, commandLayer...),
		"scaffold/internal/alignment": append([]string{
			"scaffold/internal/contig", "scaffold/internal/linkage",
			"scaffold/internal/report", "scaffold/internal/pipeline", "scaffold/internal/config",
		}, commandLayer...),
		"scaffold/internal/linkage": append([]string{
			"scaffold/internal/report", "scaffold/internal/pipeline", "scaffold/internal/config",
		}, commandLayer...),
		"scaffold/internal/report": append([]string{
			"scaffold/internal/pipeline", "scaffold/internal/config",
		}, commandLayer...),
		"scaffold/internal/pipeline": append([]string{
			"scaffold/internal/report", "scaffold/internal/config",
		}, commandLayer...),
		"scaffold/internal/config": commandLayer,
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else {
			require.NoError(t, err, "decode")
		}
		imp := p.ImportPath
		if !strings.HasPrefix(imp, "scaffold/") {
			continue
		}
		for prefix, forbidden := range bans {
			if imp != prefix && !strings.HasPrefix(imp, prefix+"/") {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "scaffold/") {
					continue
				}
				for _, ban := range forbidden {
					if dep == ban || strings.HasPrefix(dep, strings.TrimSuffix(ban, "/")+"/") {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	require.Empty(t, violations, "import boundary violations:\n  %s", strings.Join(violations, "\n  "))
}
