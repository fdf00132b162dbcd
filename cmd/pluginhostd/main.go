// Command pluginhostd is a non-contractual demo host: a thin cobra CLI
// wired to pkg/container that exercises the pluginhost Manager end to
// end. It is not itself part of the host's command contract — that
// contract lives entirely in pkg/pluginhost and pkg/plugin.
package main

import (
	"os"

	"github.com/genotrance/plugins/pkg/errors"
)

func main() {
	root := newRootCommand()

	handler := errors.DefaultHandler()
	if err := root.Execute(); err != nil {
		os.Exit(handler.Handle(err))
	}
}
