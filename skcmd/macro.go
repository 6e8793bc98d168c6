package skcmd

import (
	"go.brendoncarroll.net/star"

	"github.com/imneme/mini-sk/sklang/macros"
)

var nameParam = star.Param[string]{Name: "name", Parse: star.ParseString}
var srcParam = star.Param[string]{Name: "src", Parse: star.ParseString}

var macroSet = star.Command{
	Metadata: star.Metadata{
		Short: "define a macro, overwriting any existing definition",
	},
	Flags: []star.IParam{dbParam},
	Pos:   []star.IParam{nameParam, srcParam},
	F: func(c star.Context) error {
		db := dbParam.Load(c)
		defer db.Close()
		s, err := newResolver(c)
		if err != nil {
			return err
		}
		// The source is stored unparsed: definitions may refer to macros
		// that do not exist yet, and are only read at use.
		return s.Define(c.Context, nameParam.Load(c), srcParam.Load(c))
	},
}

var macroGet = star.Command{
	Metadata: star.Metadata{
		Short: "print the source of a macro",
	},
	Flags: []star.IParam{dbParam},
	Pos:   []star.IParam{nameParam},
	F: func(c star.Context) error {
		db := dbParam.Load(c)
		defer db.Close()
		s, err := newResolver(c)
		if err != nil {
			return err
		}
		src, err := s.Resolve(c.Context, nameParam.Load(c))
		if err != nil {
			return err
		}
		c.Printf("%s\n", src)
		return nil
	},
}

var macroList = star.Command{
	Metadata: star.Metadata{
		Short: "list macros, user definitions first",
	},
	Flags: []star.IParam{dbParam},
	F: func(c star.Context) error {
		db := dbParam.Load(c)
		defer db.Close()
		s, err := newResolver(c)
		if err != nil {
			return err
		}
		names, err := s.List(c.Context)
		if err != nil {
			return err
		}
		for _, name := range names {
			c.Printf("$%s\n", name)
		}
		for _, name := range macros.Builtin().Names() {
			c.Printf("$%s (builtin)\n", name)
		}
		return nil
	},
}

var macroDel = star.Command{
	Metadata: star.Metadata{
		Short: "delete a user macro",
	},
	Flags: []star.IParam{dbParam},
	Pos:   []star.IParam{nameParam},
	F: func(c star.Context) error {
		db := dbParam.Load(c)
		defer db.Close()
		s, err := newResolver(c)
		if err != nil {
			return err
		}
		return s.Drop(c.Context, nameParam.Load(c))
	},
}
