package main

import "survey-integrity/cmd"

func main() {
	cmd.Execute()
}
