package session

import (
	"context"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"

	"dcd-complete/src/backend"
	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
)

// DubLister returns the source directories of locally installed dub packages
type DubLister interface {
	PackageDirs(ctx context.Context) []string
}

// DubPackages asks `dub list` for installed packages
type DubPackages struct {
	transport backend.Transport
	lookPath  func(string) (string, error)
}

// NewDubPackages creates a lister that runs dub through transport
func NewDubPackages(transport backend.Transport) *DubPackages {
	return &DubPackages{
		transport: transport,
		lookPath:  exec.LookPath,
	}
}

// PackageDirs returns one directory per installed package, choosing the highest
// version when several are installed. A missing or failing dub yields nothing.
func (d *DubPackages) PackageDirs(ctx context.Context) []string {
	bin, err := d.lookPath(constants.DubBinaryName)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DubListTimeout)
	defer cancel()

	resp, err := d.transport.Exchange(ctx, backend.Request{Binary: bin, Args: []string{"list"}})
	if err != nil {
		common.SourceLogger.Debug("dub list failed: %v", err)
		return nil
	}
	if resp.ExitCode != 0 {
		common.SourceLogger.Debug("dub list exited with %d: %s", resp.ExitCode, common.SanitizeErrorForLogging(resp.Stderr))
		return nil
	}
	return ParseDubList(string(resp.Stdout))
}

type dubPackage struct {
	version string
	dir     string
}

// ParseDubList extracts package directories from `dub list` output. Lines look
// like "  vibe-d 0.9.5: /home/u/.dub/packages/vibe-d-0.9.5/vibe-d/"; anything
// without a path separator is a header and skipped.
func ParseDubList(out string) []string {
	packages := make(map[string]dubPackage)
	var order []string

	for _, line := range strings.Split(out, "\n") {
		if !strings.ContainsAny(line, `/\`) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		name := fields[0]
		version := strings.TrimSuffix(fields[1], ":")
		dir := strings.Join(fields[2:], " ")

		cur, ok := packages[name]
		if !ok {
			order = append(order, name)
			packages[name] = dubPackage{version: version, dir: dir}
			continue
		}
		if versionLess(cur.version, version) {
			packages[name] = dubPackage{version: version, dir: dir}
		}
	}

	dirs := make([]string, 0, len(order))
	for _, name := range order {
		dirs = append(dirs, packages[name].dir)
	}
	return dirs
}

// versionLess compares semantically when both versions parse, otherwise as strings
func versionLess(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.LessThan(vb)
	}
	return a < b
}
