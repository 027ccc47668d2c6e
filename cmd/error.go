package cmd

import (
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/pioneeros/pioneer/log"
	"github.com/pioneeros/pioneer/types"
)

// reportError prints err on w, which keeps stdout clean for json output;
// with show-debug it also prints the stack of the command that failed.
func reportError(w io.Writer, c *types.Config, err error) {
	logger := log.Default()
	logger.SetErrorOutput(w)
	logger.Error(err)

	if c != nil && c.RunConfig.ShowDebug {
		fmt.Fprintln(w, errors.Wrap(err, 1).ErrorStack())
	}
}
