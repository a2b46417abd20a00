package app

import (
	"context"
	"fmt"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/zerr"
)

// CheckCompiler verifies that the installed compiler can build the package set
// the manifest points at.
//
// The check fails open: when either version cannot be determined a warning is
// logged and nil is returned. Only a definite mismatch is an error.
func (a *App) CheckCompiler(ctx context.Context) error {
	reg := a.settings.RegistryTarget()

	doc, _, err := a.readManifest()
	if err != nil {
		return err
	}

	tag, ok := firstTag(reg, doc.Imports())
	if !ok {
		a.logger.Warn(fmt.Sprintf("no %s release found in the manifest, skipping the compiler check", describe(reg)))
		return nil
	}

	required, err := domain.MinimumCompilerVersion(tag)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("skipping the compiler check: %v", err))
		return nil
	}

	raw, err := a.compiler.Version(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.Warn(fmt.Sprintf("skipping the compiler check: %v", err))
		return nil
	}

	actual, err := domain.ParseSemVer(raw)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("skipping the compiler check: %v", err))
		return nil
	}

	if !domain.IsCompatible(actual, required) {
		mismatch := zerr.Wrap(domain.ErrVersionMismatch,
			fmt.Sprintf("purs %s cannot build package set %s, which requires purs %s", actual, tag, required))
		mismatch = zerr.With(mismatch, "actual", actual.String())
		mismatch = zerr.With(mismatch, "required", required.String())
		return zerr.With(mismatch, "tag", tag)
	}

	a.logger.Info(fmt.Sprintf("purs %s is compatible with package set %s", actual, tag))
	return nil
}
