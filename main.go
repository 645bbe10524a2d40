package main

import "github.com/gerunddev/jjnav/cli"

func main() {
	cli.Execute()
}
