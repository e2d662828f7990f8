// Package lang applies language-level integrations to a workspace
// after its worktrees change: wiring the member repos together the way
// the language's tooling expects.
//
// Integrations are best-effort; callers report failures as warnings
// and never fail the lifecycle operation that triggered them.
package lang

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UpdateGoWork writes a go.work file at the workspace root listing
// every repo that carries a go.mod, so the checked-out modules resolve
// against each other instead of the module proxy. Workspaces with no
// Go repos are left untouched.
func UpdateGoWork(wsDir string, repoDirs []string) error {
	var goDirs []string
	goVersion := "1.21"
	for _, dir := range repoDirs {
		modPath := filepath.Join(wsDir, dir, "go.mod")
		v, err := goModVersion(modPath)
		if err != nil {
			continue
		}
		goDirs = append(goDirs, dir)
		if versionLess(goVersion, v) {
			goVersion = v
		}
	}
	if len(goDirs) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "go %s\n\nuse (\n", goVersion)
	for _, dir := range goDirs {
		fmt.Fprintf(&b, "\t./%s\n", dir)
	}
	b.WriteString(")\n")

	if err := os.WriteFile(filepath.Join(wsDir, "go.work"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing go.work: %w", err)
	}
	return nil
}

// goModVersion reads the go directive from a go.mod file.
func goModVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if v, ok := strings.CutPrefix(line, "go "); ok {
			return strings.TrimSpace(v), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	// A go.mod without a go directive is valid; any toolchain accepts it.
	return "", nil
}

// versionLess compares two go directive versions numerically,
// segment by segment ("1.9" < "1.21" < "1.21.3").
func versionLess(a, b string) bool {
	if b == "" {
		return false
	}
	if a == "" {
		return true
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			fmt.Sscanf(as[i], "%d", &av)
		}
		if i < len(bs) {
			fmt.Sscanf(bs[i], "%d", &bv)
		}
		if av != bv {
			return av < bv
		}
	}
	return false
}
