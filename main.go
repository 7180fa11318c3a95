package main

import (
	"fmt"
	"os"

	"restobook/recon/cmd/categorize"
	"restobook/recon/cmd/dedupe"
	"restobook/recon/cmd/importfile"
	"restobook/recon/cmd/reconcile"
	"restobook/recon/cmd/repair"
	"restobook/recon/cmd/root"
	"restobook/recon/cmd/sync"
)

func init() {
	root.Cmd.AddCommand(importfile.Cmd)
	root.Cmd.AddCommand(sync.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(repair.Cmd)
	root.Cmd.AddCommand(dedupe.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
