package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

var validFilenameRegex = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.json|world.yaml>...\n", os.Args[0])
		os.Exit(1)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run validates each file and returns the process exit code
func run(files []string, stdout, stderr io.Writer) int {
	failed := 0
	for _, f := range files {
		if err := validateFile(f); err != nil {
			fmt.Fprintf(stderr, "FAIL %s: %v\n", f, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "ok   %s\n", f)
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d world files invalid\n", failed, len(files))
		return 1
	}
	return 0
}

func validateFile(path string) error {
	base := filepath.Base(path)
	if _, ok := world.FormatFromPath(path); !ok {
		return fmt.Errorf("world file must have a .json, .yaml or .yml extension: %s", base)
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	if !validFilenameRegex.MatchString(name) {
		return fmt.Errorf("world filename '%s' must be lowercase snake_case (e.g. my_world.json)", base)
	}

	w, err := world.LoadFile(path)
	if err != nil {
		return err
	}
	if w.ID != name {
		return fmt.Errorf("world id %q does not match file name %q", w.ID, name)
	}
	return nil
}
