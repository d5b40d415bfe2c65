//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the herostore project using Mage.
//
// Usage:
//
//	mage build          Compile heroes binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run tests and write coverage.out
//	mage lint           Run golangci-lint
//	mage serve          Build, seed and serve the sample database
//	mage clean          Remove build artifacts
//	mage install        Install heroes to GOPATH/bin
//	mage stats          Print Go lines per package with test ratio
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "heroes"
	binaryDir  = "bin"
	cmdDir     = "./cmd/heroes"
	sampleSeed = "testdata/db.json"
	devDataDir = ".herostore-dev"
)

// Build compiles the heroes binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts and the development data directory.
func Clean() error {
	for _, dir := range []string{binaryDir, devDataDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Serve builds heroes and serves the sample database on the default address.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName),
		"--data-dir", devDataDir,
		"serve", "--seed", sampleSeed)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
