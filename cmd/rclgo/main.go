package main

import "github.com/j-rivero/rclgo/cmd/rclgo/cmd"

func main() {
	cmd.Execute()
}
