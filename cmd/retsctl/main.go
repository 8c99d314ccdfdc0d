/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/jkestr/rechanize/cmd/retsctl/cmd"

func main() {
	cmd.Execute()
}
