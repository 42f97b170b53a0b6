package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/pkg/errcode"
)

func CreateDirError(dir string, err error) error {
	msg := "Cannot create %s"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create directory: %w",
			fn, err),
	}
}

func CopyFileError(file string, err error) error {
	msg := "Cannot copy default file to %s"
	vars := []any{file}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot copy file: %w",
			fn, err),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn, path, err),
		Msg:  msg,
		Vars: vars,
	}
}

func ContextsConfigError(path string, err error) error {
	msg := `Cannot parse the contexts file <em>%s</em>

<em>How to fix:</em>
  1. Check the file is valid YAML
  2. Expected shape: a top-level 'contexts' map of
     iconic taxon → taxonomic context
  3. Delete the file to regenerate the default table`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ContextsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse contexts file: %w", err),
	}
}
