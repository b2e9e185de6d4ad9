//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary
var Default = Build

// Build builds the moplots binary into bin/.
func Build() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", "bin/moplots", "./cmd/moplots")
}

// Test runs the test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// QA runs formatting, vet, and tests.
func QA() error {
	mg.Deps(Fmt, Vet)
	return Test()
}

// Fmt checks formatting.
func Fmt() error {
	return sh.RunV("go", "fmt", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("cleaning bin/")
	return os.RemoveAll("bin")
}
