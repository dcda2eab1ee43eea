// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "calc-simulator" runs calculator instructions against a local account
// database.
package main

import (
	"context"
	"os"

	"github.com/ava-labs/calcvm/cmd/calc-simulator/cmd"
	"github.com/ava-labs/calcvm/utils"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		utils.Outf("{{red}}calc-simulator exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
