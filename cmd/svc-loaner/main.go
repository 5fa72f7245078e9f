package main

import "github.com/architeacher/loaner/internal/runtime"

func main() {
	runtime.New().Run()
}
