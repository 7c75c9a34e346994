package scenebuild

import "github.com/opticore/lumentrace/pkg/core"

// configErrorf and geometryErrorf are the constructors Build uses; they
// wrap core.ConfigError/core.GeometryError the way
// mccartykim-wong/wong_impl/internal/vcs/errors.go's CommandError carries
// enough context (VCS, Command, Args, Stderr) to identify the failing
// operation without a caller re-deriving it from a bare string.
func configErrorf(field string, err error) *core.ConfigError {
	return core.NewConfigError(field, err)
}

func geometryErrorf(shape string, err error) *core.GeometryError {
	return core.NewGeometryError(shape, err)
}
