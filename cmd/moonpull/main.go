package main

import "github.com/moonpull/moonpull-web/internal/cli"

func main() {
	cli.Execute()
}
