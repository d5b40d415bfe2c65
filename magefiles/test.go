//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets (all, race, cover, pkg).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "-count=1", "./...")
}

// Cover runs all tests and prints per-function coverage.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Pkg runs the tests of one package, e.g. mage test:pkg store.
func (Test) Pkg(name string) error {
	for _, dir := range []string{"./pkg/", "./internal/"} {
		if ok, _ := dirExists(dir + name); ok {
			return sh.RunV(binGo, "test", "-v", dir+name+"/...")
		}
	}
	return fmt.Errorf("no package %q under pkg/ or internal/", name)
}
