package main

import "github.com/dbsmedya/gapreport/cmd/gapreport/cmd"

func main() {
	cmd.Execute()
}
