package main

import (
	"os"
)

func main() {
	if err := newApp().command().Execute(); err != nil {
		os.Exit(1)
	}
}
