package main

import (
	"testing"
)

func TestCLIVersion(t *testing.T) {
	e := newExecutor(t)
	e.Run(t, "mptrie", "--version")
	e.checkNextLine(t, "^mptrie")
	e.checkNextLine(t, "^Version: 0.1.0-test$")
	e.checkNextLine(t, "^GoVersion:")
	e.checkEOF(t)
}
