package domain

import "slices"

// RepoRef names a repository on a code host.
type RepoRef struct {
	Owner string
	Repo  string
}

// Registry describes where the upstream package set is published and the
// historical URL shapes under which manifests refer to it.
type Registry struct {
	// Host serves release assets, e.g. github.com/OWNER/REPO/releases/download/TAG/FILE.
	Host string
	RepoRef
	// LegacyHost served files straight from the repository,
	// e.g. raw.githubusercontent.com/OWNER/REPO/TAG/src/FILE.
	LegacyHost string
	// LegacyAliases are the repositories that published the same set under LegacyHost.
	LegacyAliases []RepoRef
	// Manifest is the package set file name.
	Manifest string
}

// DefaultRegistry returns the upstream PureScript package-set registry.
func DefaultRegistry() Registry {
	return Registry{
		Host:       "github.com",
		RepoRef:    RepoRef{Owner: "purescript", Repo: "package-sets"},
		LegacyHost: "raw.githubusercontent.com",
		LegacyAliases: []RepoRef{
			{Owner: "spacchetti", Repo: "spacchetti"},
			{Owner: "purescript", Repo: "package-sets"},
		},
		Manifest: ManifestFileName,
	}
}

// Tag returns the release tag an import points at, if it points at the registry.
func (r Registry) Tag(imp Import) (string, bool) {
	if tag, ok := r.releaseTag(imp); ok {
		return tag, true
	}
	if _, tag, ok := r.legacyTag(imp); ok {
		return tag, true
	}
	return "", false
}

// RewriteTag points a registry import at a new tag and clears its hash.
// Imports that do not point at the registry are returned unchanged.
func (r Registry) RewriteTag(tag string, imp Import) Import {
	if _, ok := r.releaseTag(imp); ok {
		return r.releaseImport(tag, imp)
	}
	if ref, _, ok := r.legacyTag(imp); ok && slices.Contains(r.LegacyAliases, ref) {
		return r.releaseImport(tag, imp)
	}
	return imp
}

// LocalManifestPath returns the path of a local code import of the manifest file.
func (r Registry) LocalManifestPath(imp Import) (string, bool) {
	if imp.Kind != ImportLocal || imp.File != r.Manifest || imp.Mode != ModeCode {
		return "", false
	}
	return imp.Path(), true
}

func (r Registry) releaseTag(imp Import) (string, bool) {
	d := imp.Directory
	if imp.Kind != ImportRemote || imp.Authority != r.Host || imp.File != r.Manifest || len(d) != 5 {
		return "", false
	}
	if d[0] != r.Owner || d[1] != r.Repo || d[2] != "releases" || d[3] != "download" {
		return "", false
	}
	return d[4], true
}

func (r Registry) legacyTag(imp Import) (RepoRef, string, bool) {
	d := imp.Directory
	if imp.Kind != ImportRemote || imp.Authority != r.LegacyHost || imp.File != r.Manifest || len(d) != 4 || d[3] != "src" {
		return RepoRef{}, "", false
	}
	return RepoRef{Owner: d[0], Repo: d[1]}, d[2], true
}

func (r Registry) releaseImport(tag string, imp Import) Import {
	out := imp.WithoutHash()
	out.Authority = r.Host
	out.Directory = []string{r.Owner, r.Repo, "releases", "download", tag}
	return out
}

// IsRemoteFrozen reports, for every remote import in order, whether it carries a hash.
// Non-remote imports contribute no entry, so an empty result means "no remote imports".
func IsRemoteFrozen(imports []Import) []bool {
	var out []bool
	for _, imp := range imports {
		if imp.IsRemote() {
			out = append(out, imp.IsFrozen())
		}
	}
	return out
}
