package main

import "github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/cmd/anywhere/cli"

func main() {
	cli.Execute()
}
