package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/ui/output"
	"go.trai.ch/pkgset/internal/ui/style"
)

// UpgradeOptions controls UpgradeSet.
type UpgradeOptions struct {
	// DryRun prints the change as a unified diff instead of writing it.
	DryRun bool
	// Output receives the dry-run diff.
	Output io.Writer
}

// UpgradeSet points the manifest at the latest release of the package set and
// freezes it.
//
// The upgrade is best effort: when the latest release cannot be fetched a
// warning is logged and nil is returned. A manifest that cannot be read or
// parsed is an error.
func (a *App) UpgradeSet(ctx context.Context, opts UpgradeOptions) error {
	reg := a.settings.RegistryTarget()
	manifest := a.settings.ManifestPath()

	// Fetch the latest tag.
	latest, err := a.registry.LatestTag(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.Warn(fmt.Sprintf("skipping package set upgrade: %v", err))
		return nil
	}

	// Read the manifest.
	doc, src, err := a.readManifest()
	if err != nil {
		return err
	}

	// Compare with the current tag.
	current, ok := firstTag(reg, doc.Imports())
	if !ok {
		a.logger.Warn(fmt.Sprintf("%s does not import the %s package set, nothing to upgrade", manifest, describe(reg)))
		return nil
	}
	if current == latest {
		a.logger.Info(fmt.Sprintf("package set is already on the latest release %s", latest))
		return nil
	}

	// Rewrite every registry import.
	upgraded := doc.MapImports(func(imp domain.Import) domain.Import {
		return reg.RewriteTag(latest, imp)
	})
	if !rewritten(doc, upgraded) {
		a.logger.Warn(fmt.Sprintf("%s refers to release %s outside of %s, leaving it unchanged", manifest, current, describe(reg)))
		return nil
	}

	out, err := a.codec.Render(upgraded)
	if err != nil {
		return err
	}

	if opts.DryRun {
		a.logger.Info(fmt.Sprintf("would upgrade package set from %s to %s", current, latest))
		return writeDiff(opts.Output, manifest, string(src), string(out))
	}

	if err := a.fs.WriteFile(manifest, out); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("upgraded package set from %s to %s", current, latest))

	// Freeze the rewritten imports.
	return a.freezer.Freeze(ctx, manifest)
}

// rewritten reports whether any import differs between the two documents.
func rewritten(before, after *domain.Document) bool {
	old, updated := before.Imports(), after.Imports()
	for i := range old {
		if !old[i].Equal(updated[i]) {
			return true
		}
	}
	return false
}

// writeDiff prints a unified diff with added and removed lines colored.
func writeDiff(w io.Writer, path, before, after string) error {
	if w == nil {
		return nil
	}

	out := output.New(w)
	added := out.Color(string(style.Green))
	removed := out.Color(string(style.Red))
	hunk := out.Color(string(style.Iris))

	diff := strings.TrimSuffix(udiff.Unified(path, path, before, after), "\n")
	if diff == "" {
		return nil
	}
	for _, line := range strings.Split(diff, "\n") {
		var styled string
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			styled = out.String(line).Bold().String()
		case strings.HasPrefix(line, "@@"):
			styled = out.String(line).Foreground(hunk).String()
		case strings.HasPrefix(line, "+"):
			styled = out.String(line).Foreground(added).String()
		case strings.HasPrefix(line, "-"):
			styled = out.String(line).Foreground(removed).String()
		default:
			styled = line
		}
		if _, err := io.WriteString(w, styled+"\n"); err != nil {
			return err
		}
	}
	return nil
}
