package main

import "github.com/devicelab-dev/screenkit/pkg/cli"

func main() {
	cli.Execute()
}
