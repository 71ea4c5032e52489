package main

import "github.com/topcoder-platform/topcoder-cli/cmd"

func main() {
	cmd.Execute()
}
