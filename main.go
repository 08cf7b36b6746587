package main

import "github.com/peekknuf/csvsum/cmd"

func main() {
	cmd.Execute()
}
