package main

import "github.com/chrisdamba/foodcloud/cmd"

func main() {
	cmd.Execute()
}
