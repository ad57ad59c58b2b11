/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/cdstream/cmd/cdstream/cmd"

func main() {
	cmd.Execute()
}
