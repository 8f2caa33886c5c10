package main

import "github.com/naka-gawa/github-profile-analyzer/cmd"

func main() {
	cmd.Execute()
}
