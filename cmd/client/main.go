package main

import "coachfit/cmd/client/cmd"

func main() {
	cmd.Execute()
}
