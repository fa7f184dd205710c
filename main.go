package main

import "github.com/qrave1/markcollab/cmd"

func main() {
	cmd.Execute()
}
