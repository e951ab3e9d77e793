package main

import "class-notifier/cmd/classnotifier-cli/cmd"

func main() {
	cmd.Execute()
}
