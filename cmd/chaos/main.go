package main

import "github.com/hargabyte/chaos-web/internal/cli"

func main() {
	cli.Execute()
}
