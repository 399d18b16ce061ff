package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"go.senan.xyz/tagbridge/cmd/internal/testing/testcmds"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"tagbridge": func() int { main(); return 0 },
		"fixture":   func() int { testcmds.Fixture(); return 0 },
		"find":      func() int { testcmds.Find(); return 0 },
		"mime":      func() int { testcmds.MIME(); return 0 },
	}))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir:                 "testdata/scripts",
		RequireExplicitExec: true,
	})
}
