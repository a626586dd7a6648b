package main

import "github.com/kubishi/yaduha-studio/cmd/studio/cmd"

func main() {
	cmd.Execute()
}
