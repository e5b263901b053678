package main

import "github.com/custodia-project/custodia/internal/cli"

func main() {
	cli.Execute()
}
