// Package main provides a landing point for the cachesim module.
// cachesim is a trace-driven simulator of a single-level CPU data
// cache with configurable geometry, sub-block prefetching, and an
// optional FIFO victim buffer.
//
// For the full CLI, use: go run ./cmd/cachesim
// For a parameter sweep across associativities, use: go run ./cmd/sweep
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - single-level data cache simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim [-C bits] [-B bits] [-S bits] [-K bits] [-V blocks] [-i trace]")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI, or")
	fmt.Println("'go run ./cmd/sweep -manifest <path>' to search for the best associativity.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
