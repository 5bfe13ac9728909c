package main

import "github.com/CHERKAOUIfatimazahra/EventSportify/cmd/server/cmd"

func main() {
	cmd.Execute()
}
