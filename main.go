package main

import "github.com/frahmantamala/expense-insight/cmd"

func main() {
	cmd.Execute()
}
