package main

import "github.com/0xsl1m/StaticChapel-sub001/internal/cmd"

func main() {
	cmd.Execute()
}
