package main

import "snowdemo/cmd"

func main() {
	cmd.Execute()
}
