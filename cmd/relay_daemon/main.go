package main

import "github.com/relaynet-org/relay-daemon/cmd/relay_daemon/cmd"

func main() {
	cmd.Execute()
}
