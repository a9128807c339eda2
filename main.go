/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sujayvsarma/armclient/cmd"

func main() {
	cmd.Execute()
}
