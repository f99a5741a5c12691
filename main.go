package main

import "github.com/KaramelBytes/leapmetrics-cli/cmd"

func main() {
	cmd.Execute()
}
