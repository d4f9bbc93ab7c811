package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/fsproj/internal/ir"
)

// LoadValue builds one CUE value from the given paths. A directory is
// loaded as a CUE package instance; a file is compiled on its own. All
// results are unified, so a model may be split across files.
func LoadValue(paths ...string) (cue.Value, error) {
	if len(paths) == 0 {
		return cue.Value{}, fmt.Errorf("no model paths given")
	}

	ctx := cuecontext.New()
	var value cue.Value
	for i, path := range paths {
		v, err := loadPath(ctx, path)
		if err != nil {
			return cue.Value{}, err
		}
		if i == 0 {
			value = v
			continue
		}
		value = value.Unify(v)
	}
	if err := value.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}

func loadPath(ctx *cue.Context, path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("model path: %w", err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("read %s: %w", path, err)
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		return v, nil
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances in %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("loading CUE files in %s: %w", filepath.Clean(path), inst.Err)
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// LoadModel loads and compiles a model from CUE files or directories.
func LoadModel(paths ...string) (*ir.Model, error) {
	v, err := LoadValue(paths...)
	if err != nil {
		return nil, err
	}
	return CompileModel(v)
}
