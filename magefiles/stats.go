//go:build mage

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// packageLines counts production and test lines of one Go package.
type packageLines struct {
	prod, test int
}

// Stats prints Go lines of code per package, with the test to production
// ratio, followed by the project totals.
func Stats() error {
	counts, err := countPackageLines(".")
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total packageLines
	fmt.Printf("%-20s %6s %6s %6s\n", "package", "prod", "test", "ratio")
	for _, dir := range dirs {
		c := counts[dir]
		total.prod += c.prod
		total.test += c.test
		fmt.Printf("%-20s %6d %6d %6s\n", dir, c.prod, c.test, ratio(*c))
	}
	fmt.Printf("%-20s %6d %6d %6s\n", "total", total.prod, total.test, ratio(total))
	return nil
}

// countPackageLines walks root and groups .go line counts by directory.
// Build tooling, vendored code and underscore-prefixed directories are
// skipped.
func countPackageLines(root string) (map[string]*packageLines, error) {
	counts := make(map[string]*packageLines)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") ||
				name == "vendor" || name == "magefiles" || name == binaryDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		c, ok := counts[dir]
		if !ok {
			c = &packageLines{}
			counts[dir] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		return nil
	})
	return counts, err
}

func ratio(c packageLines) string {
	if c.prod == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(c.test)/float64(c.prod))
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
