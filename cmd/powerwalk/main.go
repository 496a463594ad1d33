package main

import "github.com/powerwalk-app/powerwalk/internal/cli"

func main() {
	cli.Execute()
}
