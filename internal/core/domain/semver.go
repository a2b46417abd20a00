package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// SemVer is a major.minor.patch version.
type SemVer struct {
	Major int
	Minor int
	Patch int
}

// String renders the version as "X.Y.Z".
func (v SemVer) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// ParseSemVer parses versions such as "0.13.8", "v0.15.0-alpha-01" or
// "0.13.8 [development build]". Prerelease and build suffixes are ignored.
func ParseSemVer(s string) (SemVer, error) {
	raw := strings.TrimSpace(s)
	if fields := strings.Fields(raw); len(fields) > 0 {
		raw = fields[0]
	}
	raw = strings.TrimPrefix(raw, "v")
	if i := strings.IndexAny(raw, "-+"); i >= 0 {
		raw = raw[:i]
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return SemVer{}, zerr.With(zerr.Wrap(ErrUnparseableVersion, "expected MAJOR.MINOR.PATCH"), "version", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strings.HasPrefix(p, "+") {
			return SemVer{}, zerr.With(zerr.Wrap(ErrUnparseableVersion, "invalid version component"), "version", s)
		}
		nums[i] = n
	}
	return SemVer{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// IsCompatible reports whether a compiler at version actual can build a package
// set that requires version required.
//
// Before 1.0 every minor release may break, so the minor versions must match and
// the patch may only move forward. From 1.0 on the major versions must match and
// the minor may only move forward.
func IsCompatible(actual, required SemVer) bool {
	if required.Major == 0 {
		return actual.Major == 0 &&
			actual.Minor == required.Minor &&
			actual.Patch >= required.Patch
	}
	return actual.Major == required.Major && actual.Minor >= required.Minor
}

// compilerTagPrefix marks package-set tags that encode the compiler version,
// e.g. "psc-0.13.8-20200708".
const compilerTagPrefix = "psc-"

// MinimumCompilerVersion extracts the compiler version a package-set tag was built for.
func MinimumCompilerVersion(tag string) (SemVer, error) {
	rest, ok := strings.CutPrefix(tag, compilerTagPrefix)
	if !ok {
		return SemVer{}, zerr.With(zerr.Wrap(ErrUnparseableVersion, "package set tag does not encode a compiler version"), "tag", tag)
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	v, err := ParseSemVer(rest)
	if err != nil {
		return SemVer{}, zerr.With(err, "tag", tag)
	}
	return v, nil
}
