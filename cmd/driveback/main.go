package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/akarsten/driveback/internal/cli"
	"github.com/akarsten/driveback/internal/utils"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			os.Exit(utils.GetExitCode(appErr.Code))
		}
		os.Exit(utils.ExitUnknown)
	}
}
