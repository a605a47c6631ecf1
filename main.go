package main

import "github.com/ngld/xbuild/cmd"

func main() {
	cmd.Execute()
}
